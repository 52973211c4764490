package data

// ItemDef holds static data for one item id.
type ItemDef struct {
	ItemID    int    `yaml:"id"`
	Name      string `yaml:"name"`
	Stackable bool   `yaml:"stackable"`
	Tradable  bool   `yaml:"tradable"`
	Value     int    `yaml:"value"` // base shop value in coins
}

type itemListFile struct {
	Items []ItemDef `yaml:"items"`
}

// ItemTable holds item definitions indexed by id.
type ItemTable struct {
	items map[int]*ItemDef
}

func NewItemTable(defs []ItemDef) *ItemTable {
	t := &ItemTable{items: make(map[int]*ItemDef, len(defs))}
	for i := range defs {
		d := &defs[i]
		t.items[d.ItemID] = d
	}
	return t
}

// LoadItemTable loads item definitions from a YAML file.
func LoadItemTable(path string) (*ItemTable, error) {
	var f itemListFile
	if err := readYAML(path, "items", &f); err != nil {
		return nil, err
	}
	return NewItemTable(f.Items), nil
}

func (t *ItemTable) Get(itemID int) (*ItemDef, bool) {
	d, ok := t.items[itemID]
	return d, ok
}

// Count returns the number of items loaded.
func (t *ItemTable) Count() int {
	return len(t.items)
}
