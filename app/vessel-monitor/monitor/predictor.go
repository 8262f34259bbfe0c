package monitor

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/PugetTransitTools/ferrycast/business/data/wsf"
	"github.com/nats-io/nats.go"
	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"
)

// PredictionSlot names one of the five prediction slots on a live trip record
type PredictionSlot string

const (
	SlotAtDockDepartCurr PredictionSlot = "at-dock-depart-curr"
	SlotAtDockArriveNext PredictionSlot = "at-dock-arrive-next"
	SlotAtDockDepartNext PredictionSlot = "at-dock-depart-next"
	SlotAtSeaArriveNext  PredictionSlot = "at-sea-arrive-next"
	SlotAtSeaDepartNext  PredictionSlot = "at-sea-depart-next"
)

// PredictionContext carries the vessel state a prediction request is made from
type PredictionContext struct {
	VesselAbbrev            string     `json:"vessel_abbrev"`
	DepartingTerminalAbbrev string     `json:"departing_terminal_abbrev"`
	ArrivingTerminalAbbrev  string     `json:"arriving_terminal_abbrev"`
	RouteAbbrev             string     `json:"route_abbrev"`
	ScheduledDeparture      *time.Time `json:"scheduled_departure"`
	PrevScheduledDeparture  *time.Time `json:"prev_scheduled_departure"`
	PrevLeftDock            *time.Time `json:"prev_left_dock"`
	LeftDock                *time.Time `json:"left_dock"`
	Eta                     *time.Time `json:"eta"`
	AtDock                  bool       `json:"at_dock"`
	Latitude                float64    `json:"latitude"`
	Longitude               float64    `json:"longitude"`
	Speed                   float64    `json:"speed"`
	Heading                 float64    `json:"heading"`
	At                      time.Time  `json:"at"`
}

// Predictor produces an arrival or departure estimate for one prediction slot.
// Implementations may call a remote model.
type Predictor interface {
	Predict(slot PredictionSlot, ctx PredictionContext) (*wsf.Prediction, error)
}

// ferryHolidayCalendar holds the holidays observed by the ferry system, used
// to populate the holiday model feature
type ferryHolidayCalendar struct {
	calendar *cal.BusinessCalendar
}

func makeFerryHolidayCalendar() *ferryHolidayCalendar {
	calendar := cal.NewBusinessCalendar()
	calendar.AddHoliday(
		us.NewYear,
		us.MlkDay,
		us.MemorialDay,
		us.IndependenceDay,
		us.LaborDay,
		us.ThanksgivingDay,
		us.ChristmasDay,
		us.Juneteenth,
	)
	return &ferryHolidayCalendar{calendar: calendar}
}

func (f *ferryHolidayCalendar) isHoliday(at time.Time) bool {
	_, observed, _ := f.calendar.IsHoliday(at)
	return observed
}

// inferenceRequest is the json payload sent to the model runner
type inferenceRequest struct {
	Slot      PredictionSlot    `json:"slot"`
	Context   PredictionContext `json:"context"`
	Weekday   int               `json:"weekday"`
	Hour      int               `json:"hour"`
	Minute    int               `json:"minute"`
	Holiday   bool              `json:"holiday"`
	Timestamp int64             `json:"timestamp"`
}

// inferenceResponse is the json payload the model runner replies with, times
// as unix epoch seconds and error metrics in minutes
type inferenceResponse struct {
	PredTime int64   `json:"pred_time"`
	MinTime  int64   `json:"min_time"`
	MaxTime  int64   `json:"max_time"`
	MAE      float64 `json:"mae"`
	StdDev   float64 `json:"std_dev"`
}

// NatsPredictor requests predictions from the model runner over NATS
// request/reply
type NatsPredictor struct {
	log      *log.Logger
	conn     *nats.Conn
	subject  string
	timeout  time.Duration
	holidays *ferryHolidayCalendar
}

// MakeNatsPredictor builds a NatsPredictor on subject with a per request timeout
func MakeNatsPredictor(log *log.Logger, conn *nats.Conn, subject string, timeout time.Duration) *NatsPredictor {
	return &NatsPredictor{
		log:      log,
		conn:     conn,
		subject:  subject,
		timeout:  timeout,
		holidays: makeFerryHolidayCalendar(),
	}
}

// Predict implements Predictor by round tripping an inference request through
// the model runner
func (p *NatsPredictor) Predict(slot PredictionSlot, ctx PredictionContext) (*wsf.Prediction, error) {
	local := ctx.At.In(wsf.PacificLocation())
	request := inferenceRequest{
		Slot:      slot,
		Context:   ctx,
		Weekday:   int(local.Weekday()),
		Hour:      local.Hour(),
		Minute:    local.Minute(),
		Holiday:   p.holidays.isHoliday(local),
		Timestamp: ctx.At.Unix(),
	}
	data, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("unable to marshal inference request: %w", err)
	}
	msg, err := p.conn.Request(p.subject, data, p.timeout)
	if err != nil {
		return nil, fmt.Errorf("inference request for %s failed: %w", slot, err)
	}
	var response inferenceResponse
	if err = json.Unmarshal(msg.Data, &response); err != nil {
		return nil, fmt.Errorf("unable to unmarshal inference response: %w", err)
	}
	return predictionFromResponse(slot, response)
}

// predictionFromResponse builds the stored prediction from a model runner
// response, rejecting responses whose prediction falls outside its own bounds
func predictionFromResponse(slot PredictionSlot, response inferenceResponse) (*wsf.Prediction, error) {
	if response.MinTime > response.PredTime || response.PredTime > response.MaxTime {
		return nil, fmt.Errorf("inference response for %s has inconsistent bounds min:%d pred:%d max:%d",
			slot, response.MinTime, response.PredTime, response.MaxTime)
	}
	return &wsf.Prediction{
		PredTime: time.Unix(response.PredTime, 0).UTC(),
		MinTime:  time.Unix(response.MinTime, 0).UTC(),
		MaxTime:  time.Unix(response.MaxTime, 0).UTC(),
		MAE:      response.MAE,
		StdDev:   response.StdDev,
	}, nil
}
