package command

import (
	"bytes"
	"context"
	"net"
	"sync"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/gokart/pkg/comm/mqtt"
	"github.com/robotalks/gokart/pkg/comm/stream"
	"github.com/robotalks/gokart/pkg/msgs"
)

func encode(t *testing.T, msg msgs.Message) []byte {
	pkt, err := msgs.Encode(msg)
	require.NoError(t, err)
	return pkt
}

func waitFor(t *testing.T, cond func() bool) {
	deadline := time.Now().Add(time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("timeout")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestCellDefaults(t *testing.T) {
	var c Cell
	require.Equal(t, Command{}, c.Load())
	require.Zero(t, c.Seq())
}

func TestCellLastWriterWins(t *testing.T) {
	var c Cell
	c.HandlePacket(encode(t, &msgs.ControlCommand{SteeringAngle: 0.1, Velocity: 1}))
	c.HandlePacket(encode(t, &msgs.ControlCommand{SteeringAngle: -0.2, Velocity: 4}))
	require.Equal(t, Command{SteeringAngle: -0.2, Velocity: 4}, c.Load())
	require.Equal(t, uint64(2), c.Seq())
}

func TestCellRejects(t *testing.T) {
	var c Cell
	err := c.StorePacket(encode(t, &msgs.JointStates{}))
	require.Equal(t, &UnexpectedError{TypeID: msgs.JointStatesTypeID}, err)
	require.Error(t, c.StorePacket([]byte{0xff, 0xff}))
	require.Zero(t, c.Seq())
}

func TestCellConcurrent(t *testing.T) {
	var c Cell
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(v float64) {
			defer wg.Done()
			for n := 0; n < 100; n++ {
				c.Store(Command{SteeringAngle: v, Velocity: v})
			}
		}(float64(i))
	}
	for n := 0; n < 100; n++ {
		cmd := c.Load()
		require.Equal(t, cmd.SteeringAngle, cmd.Velocity)
	}
	wg.Wait()
	require.Equal(t, uint64(400), c.Seq())
}

func TestReaderDrainsStream(t *testing.T) {
	var buf bytes.Buffer
	w := stream.New(&buf)
	require.NoError(t, w.WritePacket(encode(t, &msgs.ControlCommand{Velocity: 2})))
	require.NoError(t, w.WritePacket(encode(t, &msgs.ControlCommand{Velocity: 3})))

	var c Cell
	r := &Reader{Reader: stream.New(&buf), Cell: &c}
	require.NoError(t, r.Run(context.Background()))
	require.Equal(t, Command{Velocity: 3}, c.Load())
}

func TestReaderCanceled(t *testing.T) {
	local, remote := net.Pipe()
	defer remote.Close()
	var c Cell
	r := &Reader{Reader: stream.New(local), Cell: &c}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	require.NoError(t, stream.New(remote).WritePacket(encode(t, &msgs.ControlCommand{SteeringAngle: 0.5})))
	waitFor(t, func() bool { return c.Seq() == 1 })
	cancel()
	select {
	case err := <-done:
		require.Equal(t, context.Canceled, err)
	case <-time.After(time.Second):
		t.Fatal("reader not stopped")
	}
}

func TestMQTTChannel(t *testing.T) {
	q := mqtt.NewQueue(paho.NewClientOptions(), "robo/")
	var c Cell
	ch := &MQTTChannel{Queue: q, Topic: "gokart/1/control_cmd", Cell: &c}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ch.Run(ctx) }()

	pkt := encode(t, &msgs.ControlCommand{SteeringAngle: 0.3, Velocity: 1.5})
	waitFor(t, func() bool {
		q.Deliver("gokart/1/control_cmd", pkt)
		return c.Seq() > 0
	})
	require.Equal(t, Command{SteeringAngle: 0.3, Velocity: 1.5}, c.Load())
	cancel()
	<-done
}
