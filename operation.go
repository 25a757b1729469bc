package pdst

// Operation is one custody request. Exactly one is executed per invocation.
type Operation interface {
	Op() string
	operation()
}

// Arrest submits a local file into custody. Empty FileName means ask.
type Arrest struct {
	FileName string
}

// Retrieve brings a file back from custody. Empty Location means the
// working directory; empty FileName means list custody and ask.
type Retrieve struct {
	FileName string
	Location string
}

// Copy duplicates a local file as copy_<name>.
type Copy struct {
	FileName string
}

// Move sends a local file to a local directory or into custody.
type Move struct {
	FileName string
}

// Search finds custody records by name and offers to retrieve one.
type Search struct {
	Query string
}

// Folder submits every file of a local folder in one request.
type Folder struct {
	Name string
}

// List shows what custody holds for a location.
type List struct {
	Location string
}

func (Arrest) Op() string   { return "arrest" }
func (Retrieve) Op() string { return "retrieve" }
func (Copy) Op() string     { return "copy" }
func (Move) Op() string     { return "move" }
func (Search) Op() string   { return "search" }
func (Folder) Op() string   { return "folder" }
func (List) Op() string     { return "list" }

func (Arrest) operation()   {}
func (Retrieve) operation() {}
func (Copy) operation()     {}
func (Move) operation()     {}
func (Search) operation()   {}
func (Folder) operation()   {}
func (List) operation()     {}
