// Package tripsvc serves current vessel trip and schedule state as json for
// UI data hooks
package tripsvc

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/PugetTransitTools/ferrycast/business/data/wsf"
	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
)

// tripData provides the persisted records the handlers serve
type tripData interface {
	GetAllVesselTrips() ([]*wsf.VesselTrip, error)
	GetVesselTrip(vesselAbbrev string) (*wsf.VesselTrip, error)
	GetScheduledTripsBySailingDay(sailingDay string) ([]*wsf.ScheduledTrip, error)
	GetScheduledTripsByKeys(sailingDay string, keys []string) ([]*wsf.ScheduledTrip, error)
}

// dbTripData backs tripData with the database
type dbTripData struct {
	db *sqlx.DB
}

func (d *dbTripData) GetAllVesselTrips() ([]*wsf.VesselTrip, error) {
	return wsf.GetAllVesselTrips(d.db)
}

func (d *dbTripData) GetVesselTrip(vesselAbbrev string) (*wsf.VesselTrip, error) {
	return wsf.GetVesselTrip(d.db, vesselAbbrev)
}

func (d *dbTripData) GetScheduledTripsBySailingDay(sailingDay string) ([]*wsf.ScheduledTrip, error) {
	return wsf.GetScheduledTripsBySailingDay(d.db, sailingDay)
}

func (d *dbTripData) GetScheduledTripsByKeys(sailingDay string, keys []string) ([]*wsf.ScheduledTrip, error) {
	return wsf.GetScheduledTripsByKeys(d.db, sailingDay, keys)
}

// defaultHttpHandler simple default http handler for default route
type defaultHttpHandler struct {
}

// ServeHTTP implements defaultHttpHandler http.Handler interface
func (h *defaultHttpHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Add("Application-Status", "OK")
}

// vesselTripHandler responds to vessel trip requests from the live trip store
type vesselTripHandler struct {
	log  *log.Logger
	data tripData
}

// JsonVesselTripResponseWrapper provides the json response wrapper around live
// vessel trips
type JsonVesselTripResponseWrapper struct {
	Timestamp   int64             `json:"timestamp"`
	VesselTrips []*wsf.VesselTrip `json:"vessel_trips"`
}

// ServeHTTP implements vesselTripHandler's http.Handler interface, serving all
// vessels or the one named in the route
func (h *vesselTripHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	vesselAbbrev := mux.Vars(r)["vessel"]
	var trips []*wsf.VesselTrip
	var err error
	if vesselAbbrev == "" {
		trips, err = h.data.GetAllVesselTrips()
	} else {
		var trip *wsf.VesselTrip
		trip, err = h.data.GetVesselTrip(strings.ToUpper(vesselAbbrev))
		if err == nil && trip == nil {
			http.Error(w, "unknown vessel", http.StatusNotFound)
			return
		}
		if trip != nil {
			trips = []*wsf.VesselTrip{trip}
		}
	}
	if err != nil {
		h.log.Printf("Error loading vessel trips: %v", err)
		http.Error(w, "Error serving request", http.StatusInternalServerError)
		return
	}
	wrapper := JsonVesselTripResponseWrapper{
		Timestamp:   time.Now().Unix(),
		VesselTrips: trips,
	}
	serveJSON(h.log, w, wrapper)
}

// scheduledTripHandler responds to schedule requests for one sailing day,
// optionally filtered to the keys named in the query so UI hooks can load a
// live trip's prev/next chain in one request
type scheduledTripHandler struct {
	log  *log.Logger
	data tripData
}

// JsonScheduledTripResponseWrapper provides the json response wrapper around
// scheduled trips
type JsonScheduledTripResponseWrapper struct {
	Timestamp      int64                `json:"timestamp"`
	SailingDay     string               `json:"sailing_day"`
	ScheduledTrips []*wsf.ScheduledTrip `json:"scheduled_trips"`
}

// ServeHTTP implements scheduledTripHandler's http.Handler interface
func (h *scheduledTripHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sailingDay := mux.Vars(r)["day"]
	if _, err := time.Parse("2006-01-02", sailingDay); err != nil {
		http.Error(w, "invalid sailing day", http.StatusBadRequest)
		return
	}
	var trips []*wsf.ScheduledTrip
	var err error
	if keys := r.URL.Query()["key"]; len(keys) > 0 {
		trips, err = h.data.GetScheduledTripsByKeys(sailingDay, keys)
	} else {
		trips, err = h.data.GetScheduledTripsBySailingDay(sailingDay)
	}
	if err != nil {
		h.log.Printf("Error loading scheduled trips for %s: %v", sailingDay, err)
		http.Error(w, "Error serving request", http.StatusInternalServerError)
		return
	}
	wrapper := JsonScheduledTripResponseWrapper{
		Timestamp:      time.Now().Unix(),
		SailingDay:     sailingDay,
		ScheduledTrips: trips,
	}
	serveJSON(h.log, w, wrapper)
}

func serveJSON(log *log.Logger, w http.ResponseWriter, wrapper interface{}) {
	jsonData, err := json.Marshal(wrapper)
	if err != nil {
		log.Printf("Error marshaling response to json: error:%v", err)
		http.Error(w, "Error serving request", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	byteCount, err := w.Write(jsonData)
	if err != nil {
		log.Printf("Error writing json response: %s", err)
		return
	}
	log.Printf("wrote %d bytes in json response.", byteCount)
}

// makeRouter wires the service routes over data
func makeRouter(log *log.Logger, data tripData) *mux.Router {
	tripHandler := &vesselTripHandler{log: log, data: data}
	scheduleHandler := &scheduledTripHandler{log: log, data: data}

	r := mux.NewRouter()
	r.Handle("/", &defaultHttpHandler{})
	r.Handle("/vesseltrips", tripHandler)
	r.Handle("/vesseltrips/{vessel}", tripHandler)
	r.Handle("/scheduledtrips/{day}", scheduleHandler)
	return r
}

// createServer creates configured http.Server for responding to trip requests
func createServer(log *log.Logger, db *sqlx.DB, httpPort int) *http.Server {
	srv := &http.Server{
		Addr: strings.Join([]string{"0.0.0.0", strconv.Itoa(httpPort)}, ":"),
		// Good practice to set timeouts to avoid Slowloris attacks.
		WriteTimeout: time.Second * 15,
		ReadTimeout:  time.Second * 15,
		IdleTimeout:  time.Second * 60,
		Handler:      makeRouter(log, &dbTripData{db: db}),
	}
	return srv
}

// RunWebService starts up the vessel trip web service, terminating on
// shutdown signal
func RunWebService(log *log.Logger,
	db *sqlx.DB,
	httpPort int,
	shutdownSignal chan os.Signal) error {

	srv := createServer(log, db, httpPort)
	log.Printf("Starting server on port %d", httpPort)
	serveErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return err
	case <-shutdownSignal:
		log.Printf("ending webservice on shutdown signal")
		shutdownCtx, serverCancelFunc := context.WithTimeout(context.Background(), time.Duration(5)*time.Second)
		defer serverCancelFunc()
		err := srv.Shutdown(shutdownCtx)
		if err != nil {
			log.Printf("error shutting down webservice, error:%s", err)
		}
		return nil
	}
}
