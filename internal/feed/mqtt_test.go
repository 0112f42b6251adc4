package feed

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

type fakeToken struct{ err error }

func (t fakeToken) Wait() bool                     { return true }
func (t fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (t fakeToken) Error() error { return t.err }

type fakePublisher struct {
	topic   string
	payload []byte
	err     error
}

func (f *fakePublisher) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	f.topic = topic
	f.payload = payload.([]byte)
	return fakeToken{err: f.err}
}

func TestMQTTSinkPublishesJSON(t *testing.T) {
	fp := &fakePublisher{}
	sink := &MQTTSink{pub: fp, topic: "navtap/events"}

	ev := Event{Kind: "rmc", Fix: &Fix{LatDeg: 48.1173, LonDeg: 11.5167, SpeedKt: 22.4}}
	if err := sink.Publish(ev); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if fp.topic != "navtap/events" {
		t.Fatalf("topic=%q want navtap/events", fp.topic)
	}

	var got Event
	if err := json.Unmarshal(fp.payload, &got); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if got.Kind != "rmc" || got.Fix == nil || got.Fix.LatDeg != 48.1173 {
		t.Fatalf("payload=%s", fp.payload)
	}
}

func TestMQTTSinkPropagatesPublishError(t *testing.T) {
	fp := &fakePublisher{err: errors.New("broker offline")}
	sink := &MQTTSink{pub: fp, topic: "navtap/events"}

	err := sink.Publish(Event{Kind: "gga"})
	if err == nil || !strings.Contains(err.Error(), "mqtt publish") {
		t.Fatalf("err=%v", err)
	}
}
