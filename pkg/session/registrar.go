package session

import (
	"encoding/json"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/glog"

	"github.com/robotalks/gokart/pkg/comm/mqtt"
)

// Publisher is the subset of mqtt.Queue used to publish.
type Publisher interface {
	PubWith(topic string, payload []byte, qos byte, retain bool) paho.Token
}

// Registrar announces the vehicle with a retained meta message. The
// broker clears it through the will if the session dies.
type Registrar struct {
	Publisher Publisher
	Namespace string

	metaJSON []byte
}

const clearTimeout = time.Second

// NewRegistrar creates a Registrar.
func NewRegistrar(pub Publisher, ns string, meta Meta) *Registrar {
	data, err := json.Marshal(&meta)
	if err != nil {
		panic(err)
	}
	return &Registrar{Publisher: pub, Namespace: ns, metaJSON: data}
}

// SetWill configures opts to clear the meta on abnormal disconnect.
func SetWill(opts *paho.ClientOptions, topicPrefix, ns string) {
	opts.SetBinaryWill(topicPrefix+ns+"/"+MetaTopic, nil, 1, true)
}

// Announce publishes the meta, it's called on every (re)connect.
func (r *Registrar) Announce() {
	glog.Infof("announce %s", r.Namespace)
	r.Publisher.PubWith(r.Namespace+"/"+MetaTopic, r.metaJSON, 1, true)
}

// Clear removes the retained meta.
func (r *Registrar) Clear() error {
	token := r.Publisher.PubWith(r.Namespace+"/"+MetaTopic, nil, 1, true)
	token.WaitTimeout(clearTimeout)
	return token.Error()
}

// OnConnect is the mqtt.ConnectHandler announcing the vehicle.
func (r *Registrar) OnConnect(*mqtt.Queue) {
	r.Announce()
}
