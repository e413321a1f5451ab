package see

import (
	"github.com/robotalks/gokart/pkg/sim"
)

// VisibleObject is an object which can be visualized.
type VisibleObject interface {
	sim.Object
	sim.Rectangular
	sim.Positionable2D
}

// Object is the data model used to represents an object.
type Object map[string]interface{}

// Rect is object rect area.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Pos is a position.
type Pos struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Message is the message for see.
type Message struct {
	Action string `json:"action"`
	Object Object `json:"object,omitempty"`
}

// Actions
const (
	ActionReset  = "reset"
	ActionObject = "object"
)

// Properties
const (
	PropID     = "id"
	PropType   = "type"
	PropRect   = "rect"
	PropOrigin = "origin"
	PropRotate = "rotate"
	PropStyle  = "style"
)

// NewObject creates Object.
func NewObject(typ, id string) Object {
	o := make(Object)
	o[PropID] = id
	o[PropType] = typ
	return o
}

// KartObjects maps the kart into a body and a heading marker, scaled
// from meters by scale.
func KartObjects(vo VisibleObject, scale float64) []Object {
	rc, po := vo.OutlineRect(), vo.Position2D()
	body := NewObject("rect", vo.Name()).
		Rc(rc.X*scale, rc.Y*scale, rc.CX*scale, rc.CY*scale).
		At(po.X*scale, po.Y*scale).
		Rotate(po.Orientation.Degrees())
	nose := NewObject("rect", vo.Name()+".nose").
		Rc(rc.X*scale+rc.CX*scale*0.8, -rc.CY*scale/8, rc.CX*scale*0.2, rc.CY*scale/4).
		At(po.X*scale, po.Y*scale).
		Rotate(po.Orientation.Degrees()).
		With(PropStyle, "fill: red")
	return []Object{body, nose}
}

// Rc sets rect.
func (o Object) Rc(x, y, w, h float64) Object {
	o[PropRect] = &Rect{X: x, Y: y, W: w, H: h}
	return o
}

// At sets origin.
func (o Object) At(x, y float64) Object {
	o[PropOrigin] = &Pos{X: x, Y: y}
	return o
}

// Rotate sets rotate.
func (o Object) Rotate(deg float64) Object {
	o[PropRotate] = deg
	return o
}

// With sets a custom property.
func (o Object) With(key string, val interface{}) Object {
	o[key] = val
	return o
}
