package see

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/gokart/pkg/framework"
	"github.com/robotalks/gokart/pkg/sim"
	"github.com/robotalks/gokart/pkg/vehicle"
)

func TestReportChanges(t *testing.T) {
	w := sim.NewConfig().NewWorld(vehicle.NewConfig())
	var buf bytes.Buffer
	a := NewConfig().NewAdapter()
	a.Writer = &buf
	a.Subscribe(w)

	loop := fx.NewLoop(w)
	loop.Add(w, a)
	loop.Step(context.Background())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var msgs []Message
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &msgs))
	require.Equal(t, ActionReset, msgs[0].Action)

	// throttled until Interval of sim time passed.
	buf.Reset()
	for w.SimTime() < a.Config.Interval {
		loop.Step(context.Background())
	}
	require.Zero(t, buf.Len())
	loop.Step(context.Background())
	require.NoError(t, json.Unmarshal(buf.Bytes(), &msgs))
	require.Len(t, msgs, 2)
	require.Equal(t, ActionObject, msgs[0].Action)
	require.Equal(t, "gokart", msgs[0].Object[PropID])

	w.Reset()
	buf.Reset()
	loop.Step(context.Background())
	require.NoError(t, json.Unmarshal(buf.Bytes(), &msgs))
	require.Equal(t, ActionReset, msgs[0].Action)
}

func TestKartObjects(t *testing.T) {
	k := &sim.Kart{WheelBase: 1, Track: 0.5, Pose: sim.Pose2D{Pos2D: sim.Pos2D{X: 1, Y: 2}}}
	objs := KartObjects(k, 100)
	require.Len(t, objs, 2)
	require.Equal(t, &Rect{X: -50, Y: -25, W: 100, H: 50}, objs[0][PropRect])
	require.Equal(t, &Pos{X: 100, Y: 200}, objs[0][PropOrigin])
	require.Equal(t, "gokart.nose", objs[1][PropID])
}
