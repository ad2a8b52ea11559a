package scratch

// Entity is the common contract of every id-bearing object in the project
// graph (§3 invariants reference "id" throughout).
type Entity interface {
	Id() string
}

type entity struct {
	id string
}

func (e *entity) Id() string { return e.id }
