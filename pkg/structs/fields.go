package structs

import (
	"strings"

	"github.com/oleiade/reflections"
)

// A Field is a tagged field of a structure.
type Field struct {
	Name      string
	Value     any
	OmitEmpty bool
}

// Fields returns the exported fields of obj, in declaration order, named after the given tag key.
// Fields without the tag keep their Go name and fields tagged "-" are skipped.
// obj can whether be a structure or pointer to structure.
func Fields(obj any, key string) []Field {
	names, err := reflections.Fields(obj)
	if err != nil {
		panic(err)
	}

	fields := make([]Field, 0, len(names))
	for _, name := range names {
		tag, err := reflections.GetFieldTag(obj, name, key)
		if err != nil {
			panic(err)
		}
		if tag == "-" {
			continue
		}

		field := Field{Name: name, Value: GetField(obj, name)}
		if tag != "" {
			parts := strings.Split(tag, ",")
			if parts[0] != "" {
				field.Name = parts[0]
			}
			for _, opt := range parts[1:] {
				if opt == "omitempty" {
					field.OmitEmpty = true
				}
			}
		}

		fields = append(fields, field)
	}
	return fields
}

// GetField returns the value of the provided obj field. obj can whether be a structure or pointer to structure.
func GetField(obj any, name string) any {
	v, err := reflections.GetField(obj, name)
	if err != nil {
		panic(err)
	}

	return v
}
