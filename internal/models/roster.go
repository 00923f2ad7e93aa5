package models

// Pupil is a roster entry. The id is assigned when the roster is built and
// stays stable regardless of any display ordering applied later.
type Pupil struct {
	ID   string `json:"id" validate:"required"`
	Name string `json:"name" validate:"required"`
	Year int    `json:"year" validate:"required,gte=1,lte=6"`
}

// Teacher is a roster entry.
type Teacher struct {
	ID   string `json:"id" validate:"required"`
	Name string `json:"name" validate:"required"`
}

// Subject is a closed enumeration of taught subjects.
type Subject string

const (
	SubjectBahasaMelayu      Subject = "Bahasa Melayu"
	SubjectBahasaInggeris    Subject = "Bahasa Inggeris"
	SubjectMatematik         Subject = "Matematik"
	SubjectSains             Subject = "Sains"
	SubjectPendidikanIslam   Subject = "Pendidikan Islam"
	SubjectPendidikanSeni    Subject = "Pendidikan Seni"
	SubjectPendidikanJasmani Subject = "Pendidikan Jasmani"
)

// Subjects returns the enumeration in its fixed order.
func Subjects() []Subject {
	return []Subject{
		SubjectBahasaMelayu,
		SubjectBahasaInggeris,
		SubjectMatematik,
		SubjectSains,
		SubjectPendidikanIslam,
		SubjectPendidikanSeni,
		SubjectPendidikanJasmani,
	}
}

// Valid returns true when the subject is a supported value.
func (s Subject) Valid() bool {
	for _, known := range Subjects() {
		if s == known {
			return true
		}
	}
	return false
}

// Timeslot is a closed enumeration of lesson time ranges.
type Timeslot string

const (
	Timeslot0730 Timeslot = "07:30 - 08:30"
	Timeslot0830 Timeslot = "08:30 - 09:30"
	Timeslot0930 Timeslot = "09:30 - 10:30"
	Timeslot1100 Timeslot = "11:00 - 12:00"
	Timeslot1200 Timeslot = "12:00 - 13:00"
)

// Timeslots returns the enumeration in its fixed order.
func Timeslots() []Timeslot {
	return []Timeslot{Timeslot0730, Timeslot0830, Timeslot0930, Timeslot1100, Timeslot1200}
}

// Valid returns true when the timeslot is a supported value.
func (t Timeslot) Valid() bool {
	for _, known := range Timeslots() {
		if t == known {
			return true
		}
	}
	return false
}
