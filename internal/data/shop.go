package data

// ShopItem holds one stock entry of a shop.
type ShopItem struct {
	ItemID int `yaml:"item_id"`
	Amount int `yaml:"amount"` // starting stock
	Price  int `yaml:"price"`  // 0 = use the item's base value
}

// Shop is a general or specialty store attached to one or more NPCs.
type Shop struct {
	Key          string     `yaml:"key"`
	Name         string     `yaml:"name"`
	NpcIDs       []int      `yaml:"npc_ids"`
	GeneralStore bool       `yaml:"general_store"`
	Items        []ShopItem `yaml:"items"`
}

type shopListFile struct {
	Shops []Shop `yaml:"shops"`
}

// ShopTable indexes shops by key and by NPC id.
type ShopTable struct {
	byKey map[string]*Shop
	byNpc map[int]*Shop
}

func NewShopTable(shops []Shop) *ShopTable {
	t := &ShopTable{
		byKey: make(map[string]*Shop, len(shops)),
		byNpc: make(map[int]*Shop, len(shops)),
	}
	for i := range shops {
		s := &shops[i]
		t.byKey[s.Key] = s
		for _, id := range s.NpcIDs {
			t.byNpc[id] = s
		}
	}
	return t
}

// LoadShopTable loads shop data from a YAML file.
func LoadShopTable(path string) (*ShopTable, error) {
	var f shopListFile
	if err := readYAML(path, "shops", &f); err != nil {
		return nil, err
	}
	return NewShopTable(f.Shops), nil
}

func (t *ShopTable) Get(key string) (*Shop, bool) {
	s, ok := t.byKey[key]
	return s, ok
}

// ForNpc returns the shop run by an NPC type.
func (t *ShopTable) ForNpc(npcID int) (*Shop, bool) {
	s, ok := t.byNpc[npcID]
	return s, ok
}

// Count returns the number of shops loaded.
func (t *ShopTable) Count() int {
	return len(t.byKey)
}
