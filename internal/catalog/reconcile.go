package catalog

// Op is the kind of mutation being reconciled into a displayed list.
type Op int

const (
	OpCreate Op = iota + 1
	OpUpdate
	OpDelete
)

func (o Op) String() string {
	switch o {
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	}
	return "unknown"
}

// Reconcile returns a new list with rec merged in according to op. The input list is never modified.
// Created records are appended without re-sorting. Updates keep the record's position. If rec's id is not
// in the list, updates and deletes leave the list as it is.
func Reconcile[T Record](list []T, rec T, op Op) []T {
	out := make([]T, 0, len(list)+1)

	switch op {
	case OpCreate:
		out = append(out, list...)
		return append(out, rec)
	case OpUpdate:
		for _, item := range list {
			if item.RecordID() == rec.RecordID() {
				item = rec
			}
			out = append(out, item)
		}
		return out
	case OpDelete:
		for _, item := range list {
			if item.RecordID() == rec.RecordID() {
				continue
			}
			out = append(out, item)
		}
		return out
	}

	return append(out, list...)
}
