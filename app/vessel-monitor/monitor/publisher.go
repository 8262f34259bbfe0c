package monitor

import (
	"encoding/json"
	"log"

	"github.com/nats-io/nats.go"
)

// tickResultsPublisher sends each tick's TickResult over NATS for downstream
// consumers such as dashboards
type tickResultsPublisher struct {
	log     *log.Logger
	conn    *nats.Conn
	subject string
}

// MakeTickResultsPublisher creates a tickResultsPublisher on subject. A nil
// connection disables publishing.
func MakeTickResultsPublisher(log *log.Logger, conn *nats.Conn, subject string) *tickResultsPublisher {
	if conn == nil {
		return nil
	}
	return &tickResultsPublisher{
		log:     log,
		conn:    conn,
		subject: subject,
	}
}

func (p *tickResultsPublisher) publish(result *TickResult) {
	if p == nil {
		return
	}
	jsonData, err := json.Marshal(result)
	if err != nil {
		p.log.Printf("failed to marshal TickResult in tickResultsPublisher.publish, error:%v", err)
		return
	}
	err = p.conn.Publish(p.subject, jsonData)
	if err != nil {
		p.log.Printf("failed to send TickResult in tickResultsPublisher.publish, error:%v", err)
	}
}
