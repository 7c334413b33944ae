package hierarchy

import "sort"

// MultipleNames holds one normalized main name plus any alternate-locale
// normalized names for a single address component.
type MultipleNames struct {
	mainName string
	altNames []string
}

func NewMultipleNames(mainName string) MultipleNames {
	return MultipleNames{mainName: mainName}
}

func (m MultipleNames) GetMainName() string   { return m.mainName }
func (m MultipleNames) GetNames() []string     { return m.altNames }

func (m *MultipleNames) SetMainName(name string) { m.mainName = name }

// AddAltName inserts name into the sorted, de-duplicated alt-name list.
func (m *MultipleNames) AddAltName(name string) {
	i := sort.SearchStrings(m.altNames, name)
	if i < len(m.altNames) && m.altNames[i] == name {
		return
	}
	m.altNames = append(m.altNames, "")
	copy(m.altNames[i+1:], m.altNames[i:])
	m.altNames[i] = name
}

func (m MultipleNames) Equal(o MultipleNames) bool {
	if m.mainName != o.mainName || len(m.altNames) != len(o.altNames) {
		return false
	}
	for i := range m.altNames {
		if m.altNames[i] != o.altNames[i] {
			return false
		}
	}
	return true
}

func (m MultipleNames) key() string {
	k := m.mainName
	for _, n := range m.altNames {
		k += "\x00" + n
	}
	return k
}

// Position indexes into a NameDictionary. The zero value is reserved as
// "unspecified": no hierarchy entry address slot ever points at position 0.
type Position uint32

const UnspecifiedPosition Position = 0

// NameDictionary is the immutable, shared store of normalized name records
// hierarchy entries point into. Entries with an identical (main, alts) pair
// are deduplicated at build time via NameDictionaryBuilder.
type NameDictionary struct {
	stock []MultipleNames
}

func (d *NameDictionary) Get(pos Position) MultipleNames {
	if pos == UnspecifiedPosition || int(pos) > len(d.stock) {
		return MultipleNames{}
	}
	return d.stock[pos-1]
}

func (d *NameDictionary) Len() int { return len(d.stock) }

// NameDictionaryBuilder accumulates MultipleNames records during hierarchy
// load, deduping by value so identical address components across many
// entries (e.g. a country name repeated on thousands of features) share one
// dictionary slot.
type NameDictionaryBuilder struct {
	stock []MultipleNames
	index map[string]Position
}

func NewNameDictionaryBuilder() *NameDictionaryBuilder {
	return &NameDictionaryBuilder{index: make(map[string]Position)}
}

func (b *NameDictionaryBuilder) Add(names MultipleNames) Position {
	k := names.key()
	if pos, ok := b.index[k]; ok {
		return pos
	}
	b.stock = append(b.stock, names)
	pos := Position(len(b.stock))
	b.index[k] = pos
	return pos
}

func (b *NameDictionaryBuilder) Release() NameDictionary {
	d := NameDictionary{stock: b.stock}
	b.stock = nil
	b.index = nil
	return d
}
