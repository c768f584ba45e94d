package query

// idField is always carried over by include projections.
const idField = "id"

// Project applies sel to record. Include builds a new record holding only the listed
// paths, nested as given, plus id when the source has one. Exclude returns a copy with
// the listed paths removed. An empty selection returns record itself.
func Project(record Record, sel Selection) Record {
	switch {
	case len(sel.Include) > 0:
		out := Record{}
		for _, path := range sel.Include {
			if v, ok := Get(record, path); ok {
				Set(out, path, Clone(v))
			}
		}
		if v, ok := record[idField]; ok {
			if _, set := out[idField]; !set {
				out[idField] = Clone(v)
			}
		}
		return out
	case len(sel.Exclude) > 0:
		out := shallowCopy(record)
		for _, path := range sel.Exclude {
			out = Without(out, path)
		}
		return out
	}
	return record
}

// ProjectAll applies sel to every record.
func ProjectAll(records []Record, sel Selection) []Record {
	if sel.Empty() {
		return records
	}
	out := make([]Record, len(records))
	for i, r := range records {
		out[i] = Project(r, sel)
	}
	return out
}

func shallowCopy(r Record) Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
