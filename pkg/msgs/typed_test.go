package msgs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodePacket(t *testing.T) {
	pkt, err := Encode(&ControlCommand{SteeringAngle: 0.2, Velocity: -1.5})
	require.NoError(t, err)
	msg, typed, err := DecodePacket(pkt)
	require.NoError(t, err)
	require.True(t, typed.IsCommand())
	require.Equal(t, &ControlCommand{SteeringAngle: 0.2, Velocity: -1.5}, msg)
}

func TestDecodeUnknownType(t *testing.T) {
	data, err := (Typed{TypeId: GroupCustom | 0x42}).Encode()
	require.NoError(t, err)
	_, _, err = DecodePacket(data)
	require.Equal(t, &ErrUnknownType{TypeID: GroupCustom | 0x42}, err)
}

func TestKinds(t *testing.T) {
	typed, err := TypedFrom(&JointStates{})
	require.NoError(t, err)
	require.True(t, typed.IsEvent())
	_, err = TypedFrom(nil)
	require.Equal(t, ErrNotSerializable, err)
}
