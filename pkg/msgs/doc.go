// Package msgs defines the wire envelope and the vehicle messages.
//
// Every packet is a protobuf encoded Typed whose TypeId selects the
// payload schema. ControlCommand is a command sent by operators;
// JointStates is an event published by the vehicle.
package msgs
