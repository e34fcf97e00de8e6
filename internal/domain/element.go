package domain

import "fmt"

// Element is one of the five phases a card is aligned with.
type Element string

const (
	ElementWood  Element = "wood"
	ElementFire  Element = "fire"
	ElementEarth Element = "earth"
	ElementMetal Element = "metal"
	ElementWater Element = "water"
)

// ElementCycle is the generating order. Harmony is classified by the forward
// distance between two positions on this cycle.
var ElementCycle = [5]Element{ElementWood, ElementFire, ElementEarth, ElementMetal, ElementWater}

// Index returns the position of e in ElementCycle, or -1 if e is not an element.
func (e Element) Index() int {
	for i, el := range ElementCycle {
		if el == e {
			return i
		}
	}
	return -1
}

// Valid reports whether e is one of the five elements.
func (e Element) Valid() bool { return e.Index() >= 0 }

// ParseElement converts a content string into an Element.
func ParseElement(s string) (Element, error) {
	e := Element(s)
	if !e.Valid() {
		return "", fmt.Errorf("unknown element %q", s)
	}
	return e, nil
}

// ElementPtr returns a pointer to a copy of e.
func ElementPtr(e Element) *Element { return &e }

// sameElementScope reports whether a modifier/status element scope matches a query scope.
// A nil scope only matches nil.
func sameElementScope(a, b *Element) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
