package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/robotalks/gokart/pkg/command"
	"github.com/robotalks/gokart/pkg/comm/mqtt"
	"github.com/robotalks/gokart/pkg/msgs"
)

// Info is a discovered vehicle.
type Info struct {
	Ref  VehicleRef
	Meta Meta
}

// DefaultDiscoverTimeout defines the default timeout value of discovery.
const DefaultDiscoverTimeout = 500 * time.Millisecond

// Discover collects the vehicles announced on the broker until timeout.
func Discover(ctx context.Context, brokerURL string, timeout time.Duration) (res []Info, err error) {
	q, err := mqtt.NewQueueFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	if token := q.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	defer q.Close()
	resCh := make(chan Info, 1)
	sub := q.Sub("+/+/"+MetaTopic, func(topic string, payload []byte) {
		if info, ok := ParseMeta(topic, payload); ok {
			select {
			case resCh <- info:
			case <-time.After(time.Second):
			}
		}
	})
	defer sub.Close()

	if timeout == 0 {
		timeout = DefaultDiscoverTimeout
	}
	expire := time.After(timeout)
	for {
		select {
		case info := <-resCh:
			res = append(res, info)
		case <-expire:
			return
		case <-ctx.Done():
			err = ctx.Err()
			return
		}
	}
}

// ParseMeta decodes a retained meta message. Empty payloads are
// cleared announcements.
func ParseMeta(topic string, payload []byte) (info Info, ok bool) {
	items := strings.Split(topic, "/")
	if len(items) != 3 || items[2] != MetaTopic || len(payload) == 0 {
		return
	}
	info.Ref = VehicleRef{Type: items[0], ID: items[1]}
	if err := json.Unmarshal(payload, &info.Meta); err != nil {
		return
	}
	return info, true
}

// Remote sends commands to a vehicle through the broker.
type Remote struct {
	Queue *mqtt.Queue
	Ref   VehicleRef
	Topic string
}

// Dial connects to the broker for controlling the vehicle.
func Dial(brokerURL string, ref VehicleRef) (*Remote, error) {
	if !ref.IsValid() {
		return nil, fmt.Errorf("vehicle type and id must be specified")
	}
	q, err := mqtt.NewQueueFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	if token := q.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return &Remote{Queue: q, Ref: ref, Topic: DefaultCommandTopic}, nil
}

// Send publishes the command.
func (r *Remote) Send(cmd command.Command) error {
	pkt, err := msgs.Encode(&msgs.ControlCommand{SteeringAngle: cmd.SteeringAngle, Velocity: cmd.Velocity})
	if err != nil {
		return err
	}
	return waitToken(r.Queue.Pub(r.Ref.Name()+"/"+r.Topic, pkt))
}

// OnRejected subscribes to commands the vehicle refused.
func (r *Remote) OnRejected(fn func(*msgs.CommandErr)) *mqtt.Subscription {
	return r.Queue.Sub(r.Ref.Name()+"/"+CommandErrTopic, func(_ string, payload []byte) {
		if msg, _, err := msgs.DecodePacket(payload); err == nil {
			if cerr, ok := msg.(*msgs.CommandErr); ok {
				fn(cerr)
			}
		}
	})
}

// Close implements io.Closer.
func (r *Remote) Close() error {
	return r.Queue.Close()
}

func waitToken(token paho.Token) error {
	if !token.WaitTimeout(time.Second) {
		return fmt.Errorf("publish timeout")
	}
	return token.Error()
}
