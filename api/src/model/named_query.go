package model

// NamedQuery declares a parameterised lookup by name. Execution belongs to the
// repository of each store; Params lists the bound fields by position, from 1.
type NamedQuery struct {
	Name   string
	Where  string
	Params []string
}

var FindByTheUsersName = NamedQuery{
	Name:   "User.findByTheUsersName",
	Where:  "username = ?",
	Params: []string{"username"},
}
