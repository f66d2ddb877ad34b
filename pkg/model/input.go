package model

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"slices"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
)

type RawSectionCounts struct {
	Lectures  int `validate:"gte=0"`
	Tutorials int `validate:"gte=0"`
	Labs      int `validate:"gte=0"`
}

type RawParallelGroups struct {
	Lectures  [][]int `validate:"dive,min=1"`
	Tutorials [][]int `validate:"dive,min=1"`
	Labs      [][]int `validate:"dive,min=1"`
}

type RawCourse struct {
	Code      string `validate:"required"`
	Lectures  int    `validate:"gte=0"`
	Tutorials int    `validate:"gte=0"`
	LabHours  int    `mapstructure:"lab_hours" validate:"gte=0"`
	Sections  RawSectionCounts
	Parallel  RawParallelGroups
}

type RawSemester struct {
	Name    string      `validate:"required"`
	Courses []RawCourse `validate:"dive"`
}

type RawBranch struct {
	Name      string        `validate:"required"`
	Semesters []RawSemester `validate:"dive"`
}

type RawModelInput struct {
	Branches   []RawBranch    `validate:"required,dive"`
	Rooms      []Room         `validate:"dive"`
	Enrollment map[string]int `validate:"dive,gte=0"`
}

type Room struct {
	Name     string `validate:"required" json:"name"`
	Capacity int    `validate:"gt=0" json:"capacity"`
}

type Course struct {
	Code      string
	Lectures  int
	Tutorials int
	LabHours  int
	Sections  map[Component]int
	Parallel  map[Component][][]int // Section groups sharing a slot; every section appears in exactly one group
}

type Semester struct {
	Name    string
	Courses []Course
}

type Branch struct {
	Name      string
	Semesters []Semester
}

type CourseLoad struct {
	Branches []Branch
}

type ModelInput struct {
	Load       CourseLoad
	Rooms      []Room
	Enrollment map[string]int
}

// Required returns the weekly demand of a component per section; labs count
// one block per section.
func (course Course) Required(component Component) int {
	switch component {
	case Lecture:
		return course.Lectures
	case Tutorial:
		return course.Tutorials
	case Lab:
		if course.LabHours > 0 {
			return 1
		}
	}
	return 0
}

func (course Course) SectionCount(component Component) int {
	return max(course.Sections[component], 1)
}

// SectionGroups lists the section indexes of a component, grouped by shared
// slot. A single-section component yields [[NoSection]].
func (course Course) SectionGroups(component Component) [][]int {
	if course.SectionCount(component) == 1 {
		return [][]int{{NoSection}}
	}
	return course.Parallel[component]
}

func (course Course) Key(component Component, section int) SessionKey {
	return SessionKey{Course: course.Code, Component: component, Section: section}
}

func InputFromJson(file string) (ModelInput, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return ModelInput{}, fmt.Errorf("cannot read input file: %w", err)
	}
	var inputJson map[string]any
	if err := json.Unmarshal(bytes, &inputJson); err != nil {
		return ModelInput{}, err
	}

	var rawInput RawModelInput
	if err := mapstructure.Decode(inputJson, &rawInput); err != nil {
		return ModelInput{}, fmt.Errorf("cannot decode input: %w", err)
	}
	return ProcessRawInput(rawInput)
}

func ProcessRawInput(rawInput RawModelInput) (ModelInput, error) {
	if err := validator.New().Struct(rawInput); err != nil {
		return ModelInput{}, fmt.Errorf("invalid input: %w", err)
	}

	input := ModelInput{
		Rooms:      rawInput.Rooms,
		Enrollment: rawInput.Enrollment,
	}
	if input.Enrollment == nil {
		input.Enrollment = make(map[string]int)
	}

	if duplicate, ok := firstDuplicate(lo.Map(rawInput.Rooms, func(room Room, _ int) string { return room.Name })); ok {
		return ModelInput{}, fmt.Errorf("duplicate room \"%v\"", duplicate)
	}
	if duplicate, ok := firstDuplicate(lo.Map(rawInput.Branches, func(branch RawBranch, _ int) string { return branch.Name })); ok {
		return ModelInput{}, fmt.Errorf("duplicate branch \"%v\"", duplicate)
	}

	definitions := make(map[string]Course) // Courses shared across branches/semesters must be defined identically
	for _, rawBranch := range rawInput.Branches {
		branch := Branch{Name: rawBranch.Name}
		if duplicate, ok := firstDuplicate(lo.Map(rawBranch.Semesters, func(semester RawSemester, _ int) string { return semester.Name })); ok {
			return ModelInput{}, fmt.Errorf("duplicate semester \"%v\" in branch \"%v\"", duplicate, branch.Name)
		}

		for _, rawSemester := range rawBranch.Semesters {
			semester := Semester{Name: rawSemester.Name}
			if duplicate, ok := firstDuplicate(lo.Map(rawSemester.Courses, func(course RawCourse, _ int) string { return course.Code })); ok {
				return ModelInput{}, fmt.Errorf("duplicate course \"%v\" in %v/%v", duplicate, branch.Name, semester.Name)
			}

			for _, rawCourse := range rawSemester.Courses {
				course, err := processRawCourse(rawCourse)
				if err != nil {
					return ModelInput{}, err
				}

				if previous, ok := definitions[course.Code]; ok && !reflect.DeepEqual(previous, course) {
					return ModelInput{}, fmt.Errorf("course \"%v\" is defined differently in %v/%v", course.Code, branch.Name, semester.Name)
				}
				definitions[course.Code] = course
				semester.Courses = append(semester.Courses, course)
			}
			branch.Semesters = append(branch.Semesters, semester)
		}
		input.Load.Branches = append(input.Load.Branches, branch)
	}

	return input, nil
}

func processRawCourse(rawCourse RawCourse) (Course, error) {
	course := Course{
		Code:      rawCourse.Code,
		Lectures:  rawCourse.Lectures,
		Tutorials: rawCourse.Tutorials,
		LabHours:  rawCourse.LabHours,
		Sections: map[Component]int{
			Lecture:  max(rawCourse.Sections.Lectures, 1),
			Tutorial: max(rawCourse.Sections.Tutorials, 1),
			Lab:      max(rawCourse.Sections.Labs, 1),
		},
		Parallel: make(map[Component][][]int),
	}

	rawGroups := map[Component][][]int{
		Lecture:  rawCourse.Parallel.Lectures,
		Tutorial: rawCourse.Parallel.Tutorials,
		Lab:      rawCourse.Parallel.Labs,
	}

	for _, component := range Components {
		sections := course.Sections[component]
		groups := make([][]int, 0, sections)
		grouped := make(map[int]bool)

		for _, rawGroup := range rawGroups[component] {
			// Groups of the same component must be disjoint sets of known sections
			for _, section := range rawGroup {
				if section < 1 || section > sections {
					return Course{}, fmt.Errorf("course \"%v\" has %v %v section(s) but a parallel group references section %v", course.Code, sections, component, section)
				} else if grouped[section] {
					return Course{}, fmt.Errorf("parallel %v groups of course \"%v\" must be disjoint sets: section %v is present more than once", component, course.Code, section)
				}
				grouped[section] = true
			}
			groups = append(groups, slices.Clone(rawGroup))
		}

		// Sections not listed in any group are scheduled on their own
		for section := 1; section <= sections; section++ {
			if !grouped[section] {
				groups = append(groups, []int{section})
			}
		}
		course.Parallel[component] = groups
	}

	return course, nil
}
