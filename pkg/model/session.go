package model

import (
	"fmt"
	"strings"
)

type Component int

const (
	Lecture Component = iota
	Tutorial
	Lab
)

var Components = []Component{Lecture, Tutorial, Lab}

func (component Component) String() string {
	switch component {
	case Lecture:
		return "Lecture"
	case Tutorial:
		return "Tutorial"
	case Lab:
		return "Lab"
	}
	return fmt.Sprintf("Component(%d)", int(component))
}

func ParseComponent(value string) (Component, error) {
	switch strings.ToLower(value) {
	case "lecture":
		return Lecture, nil
	case "tutorial", "tut":
		return Tutorial, nil
	case "lab":
		return Lab, nil
	}
	return 0, fmt.Errorf("unknown component \"%v\"", value)
}

// NoSection marks a component taught as a single section.
const NoSection = 0

// GroupKey identifies a component-group: one kind of class of one course.
type GroupKey struct {
	Course    string
	Component Component
}

// SessionKey identifies one schedulable unit. Sections are 1-based; NoSection
// means the group has a single section and no label suffix.
type SessionKey struct {
	Course    string
	Component Component
	Section   int
}

func (key SessionKey) Group() GroupKey {
	return GroupKey{Course: key.Course, Component: key.Component}
}

func (key SessionKey) Sectioned() bool {
	return key.Section != NoSection
}

func (key SessionKey) Label() string {
	if !key.Sectioned() {
		return fmt.Sprintf("%v_%v", key.Course, key.Component)
	}
	return fmt.Sprintf("%v_%v_%d", key.Course, key.Component, key.Section)
}

func (key SessionKey) String() string {
	return key.Label()
}

type Slot struct {
	Day    int
	Period int
}

// Session is a SessionKey placed at a slot. Labs appear as one Session per
// period of their block.
type Session struct {
	Key SessionKey
	Slot
}

func (session Session) String() string {
	return fmt.Sprintf("%v@%d/%d", session.Key.Label(), session.Day, session.Period)
}
