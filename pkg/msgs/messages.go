package msgs

import (
	"github.com/golang/protobuf/proto"
)

// ControlCommand carries the desired steering angle (radians) and the
// desired drive velocity (rad/s on the wheel joints).
type ControlCommand struct {
	SteeringAngle float64 `protobuf:"fixed64,1,opt,name=steering_angle,json=steeringAngle,proto3" json:"steering_angle,omitempty"`
	Velocity      float64 `protobuf:"fixed64,2,opt,name=velocity,proto3" json:"velocity,omitempty"`
}

// NewMessage implements Message.
func (m *ControlCommand) NewMessage() Message { return &ControlCommand{} }

// TypeID implements Message.
func (m *ControlCommand) TypeID() uint32 { return ControlCommandTypeID }

// ProtoMessage implements proto.Message.
func (m *ControlCommand) ProtoMessage() {}

// Reset implements proto.Message.
func (m *ControlCommand) Reset() { *m = ControlCommand{} }

// String implements proto.Message.
func (m *ControlCommand) String() string { return proto.CompactTextString(m) }

// JointState is the state of a single joint after a tick.
type JointState struct {
	Name       string  `protobuf:"bytes,1,opt,name=name,proto3" json:"name,omitempty"`
	Position   float64 `protobuf:"fixed64,2,opt,name=position,proto3" json:"position,omitempty"`
	Velocity   float64 `protobuf:"fixed64,3,opt,name=velocity,proto3" json:"velocity,omitempty"`
	Target     float64 `protobuf:"fixed64,4,opt,name=target,proto3" json:"target,omitempty"`
	Correction float64 `protobuf:"fixed64,5,opt,name=correction,proto3" json:"correction,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *JointState) ProtoMessage() {}

// Reset implements proto.Message.
func (m *JointState) Reset() { *m = JointState{} }

// String implements proto.Message.
func (m *JointState) String() string { return proto.CompactTextString(m) }

// JointStates is an event reporting all controlled joints.
type JointStates struct {
	SimTimeNs int64         `protobuf:"varint,1,opt,name=sim_time_ns,json=simTimeNs,proto3" json:"sim_time_ns,omitempty"`
	Joints    []*JointState `protobuf:"bytes,2,rep,name=joints,proto3" json:"joints,omitempty"`
}

// NewMessage implements Message.
func (m *JointStates) NewMessage() Message { return &JointStates{} }

// TypeID implements Message.
func (m *JointStates) TypeID() uint32 { return JointStatesTypeID }

// ProtoMessage implements proto.Message.
func (m *JointStates) ProtoMessage() {}

// Reset implements proto.Message.
func (m *JointStates) Reset() { *m = JointStates{} }

// String implements proto.Message.
func (m *JointStates) String() string { return proto.CompactTextString(m) }

// CommandErr reports a rejected command back to the sender.
type CommandErr struct {
	Message string `protobuf:"bytes,1,opt,name=message,proto3" json:"message,omitempty"`
}

// NewCommandErr creates a CommandErr from an error.
func NewCommandErr(err error) *CommandErr {
	return &CommandErr{Message: err.Error()}
}

// NewMessage implements Message.
func (m *CommandErr) NewMessage() Message { return &CommandErr{} }

// TypeID implements Message.
func (m *CommandErr) TypeID() uint32 { return CommandErrTypeID }

// ProtoMessage implements proto.Message.
func (m *CommandErr) ProtoMessage() {}

// Reset implements proto.Message.
func (m *CommandErr) Reset() { *m = CommandErr{} }

// String implements proto.Message.
func (m *CommandErr) String() string { return proto.CompactTextString(m) }

// Error implements error.
func (m *CommandErr) Error() string { return m.Message }

// TypeID Groups
const (
	GroupCommand uint32 = 0x00000000
	GroupVehicle uint32 = 0x00030000
	GroupCustom  uint32 = 0x7f000000 // base group id for custom messages.
)

// TypeIDs
const (
	CommandErrTypeID     uint32 = GroupCommand | TypeIDMaskReply | 0x0001
	ControlCommandTypeID uint32 = GroupVehicle | 0x0000
	JointStatesTypeID    uint32 = GroupVehicle | TypeIDKindEvent | 0x0001
)
