package data

// ObjectDef holds static data for a landscape object id.
type ObjectDef struct {
	ObjectID int      `yaml:"id"`
	Name     string   `yaml:"name"`
	Options  []string `yaml:"options"`
	Solid    bool     `yaml:"solid"`
}

type objectListFile struct {
	Objects []ObjectDef `yaml:"objects"`
}

type ObjectTable struct {
	defs map[int]*ObjectDef
}

func NewObjectTable(defs []ObjectDef) *ObjectTable {
	t := &ObjectTable{defs: make(map[int]*ObjectDef, len(defs))}
	for i := range defs {
		d := &defs[i]
		t.defs[d.ObjectID] = d
	}
	return t
}

func LoadObjectTable(path string) (*ObjectTable, error) {
	var f objectListFile
	if err := readYAML(path, "objects", &f); err != nil {
		return nil, err
	}
	return NewObjectTable(f.Objects), nil
}

func (t *ObjectTable) Get(objectID int) (*ObjectDef, bool) {
	d, ok := t.defs[objectID]
	return d, ok
}

func (t *ObjectTable) Count() int {
	return len(t.defs)
}
