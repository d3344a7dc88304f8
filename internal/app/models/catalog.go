package models

// Faculties in display order
var Faculties = []string{"Computer Science", "Engineering", "Business", "Medicine", "Arts"}

var departmentsByFaculty = map[string][]string{
	"Computer Science": {"Computer Science", "Information Technology", "Software Engineering"},
	"Engineering":      {"Electrical Engineering", "Mechanical Engineering", "Civil Engineering"},
	"Business":         {"Business Administration", "Finance", "Marketing"},
	"Medicine":         {"General Medicine", "Dentistry", "Pharmacy"},
	"Arts":             {"English Literature", "History", "Psychology"},
}

// Batches that announcements can target
var Batches = []string{"Batch 12", "Batch 13", "Batch 14", "Batch 15", "Batch 16"}

// IsFaculty reports whether name is a known faculty
func IsFaculty(name string) bool {
	_, ok := departmentsByFaculty[name]
	return ok
}

// DepartmentsOf returns a copy of the departments of faculty, or nil
func DepartmentsOf(faculty string) []string {
	deps, ok := departmentsByFaculty[faculty]
	if !ok {
		return nil
	}
	out := make([]string, len(deps))
	copy(out, deps)
	return out
}

// IsDepartmentOf reports whether department belongs to faculty
func IsDepartmentOf(faculty, department string) bool {
	for _, d := range departmentsByFaculty[faculty] {
		if d == department {
			return true
		}
	}
	return false
}

// IsBatch reports whether batch is a known batch
func IsBatch(batch string) bool {
	for _, b := range Batches {
		if b == batch {
			return true
		}
	}
	return false
}

// AnnouncementForm holds the audience picked while composing an announcement.
// Department and batch depend on the faculty and are reset when it changes.
type AnnouncementForm struct {
	Faculty    string `json:"faculty"`
	Department string `json:"department"`
	Batch      string `json:"batch"`
}

// SelectFaculty sets the faculty and clears department and batch.
// Unknown faculties are ignored.
func (f *AnnouncementForm) SelectFaculty(faculty string) bool {
	if !IsFaculty(faculty) {
		return false
	}
	f.Faculty = faculty
	f.Department = ""
	f.Batch = ""
	return true
}

// SelectDepartment sets the department if it belongs to the chosen faculty
func (f *AnnouncementForm) SelectDepartment(department string) bool {
	if !IsDepartmentOf(f.Faculty, department) {
		return false
	}
	f.Department = department
	return true
}

// SelectBatch sets the batch if it is known
func (f *AnnouncementForm) SelectBatch(batch string) bool {
	if !IsBatch(batch) {
		return false
	}
	f.Batch = batch
	return true
}
