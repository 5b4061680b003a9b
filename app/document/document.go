// Package document simulates the class list of a rendered root element.
package document

import "slices"

// ClassList is a set of style class names. The zero value is an empty, usable list.
type ClassList struct {
	classes map[string]struct{}
}

// New makes a class list holding the given classes.
func New(classes ...string) *ClassList {
	c := &ClassList{}
	for _, name := range classes {
		c.Add(name)
	}
	return c
}

// Add puts the class into the list, no-op if already present.
func (c *ClassList) Add(name string) {
	if c.classes == nil {
		c.classes = make(map[string]struct{})
	}
	c.classes[name] = struct{}{}
}

// Remove drops the class, no-op if absent.
func (c *ClassList) Remove(name string) {
	delete(c.classes, name)
}

// Contains reports whether the class is present.
func (c *ClassList) Contains(name string) bool {
	_, ok := c.classes[name]
	return ok
}

// Toggle removes the class if present or adds it otherwise.
// Returns true if the class was added.
func (c *ClassList) Toggle(name string) bool {
	if c.Contains(name) {
		c.Remove(name)
		return false
	}
	c.Add(name)
	return true
}

// Classes returns a sorted copy of all classes.
func (c *ClassList) Classes() []string {
	res := make([]string, 0, len(c.classes))
	for name := range c.classes {
		res = append(res, name)
	}
	slices.Sort(res)
	return res
}
