package bulist

// NameColumns selects which CSV columns hold name data. Either FullName or
// the Last/First pair is used; Middle is optional. Values may be header
// names or 1-based #N indexes.
type NameColumns struct {
	Last     string `json:"last"`
	First    string `json:"first"`
	Middle   string `json:"middle"`
	FullName string `json:"fullName"`
}

// ContactColumns selects the identifier column in addition to the name
// columns.
type ContactColumns struct {
	ID string `json:"id"`
	NameColumns
}

// columnCandidates lists header spellings seen in Broadstripes exports and
// employer lists, used for auto-detection when no explicit column is given.
type columnCandidates struct {
	last   []string
	first  []string
	middle []string
	full   []string
	id     []string
	email  []string
	member []string
}

func defaultColumnCandidates() columnCandidates {
	return columnCandidates{
		last:   []string{"Last Name", "Last", "Surname", "last_name"},
		first:  []string{"First Name", "First", "first_name"},
		middle: []string{"Middle Name", "Middle", "MI", "middle_name"},
		full:   []string{"Full Name", "Name", "Contact Name"},
		id:     []string{"Contact ID", "Broadstripes ID", "ID", "id"},
		email:  []string{"Email", "Email Address", "email"},
		member: []string{"Member", "Member ID", "Contact ID", "Name"},
	}
}
