package host

import (
	"fmt"
	"sort"
	"strings"
)

// Field declares one record component
type Field struct {
	Name string
	Kind Kind
	Type string // object fields: family of the referenced class
	Elem string // lists and optionals: family of the contained values
}

// Class is a foreign record or enum type. Records in the same family form a
// closed tagged union; Tag is the explicit discriminant within that family.
type Class struct {
	Name   string // qualified name, e.g. "termbridge/Command$MoveTo"
	Family string // union or enum name, e.g. "Command"
	Tag    string // variant name, e.g. "MoveTo"; empty for enums

	Fields    []Field  // records: constructor order
	Constants []string // enums: declaration order
}

// IsEnum reports whether the class declares enum constants
func (c *Class) IsEnum() bool {
	return len(c.Constants) > 0
}

// FieldIndex returns the position of a record component
func (c *Class) FieldIndex(name string) (int, bool) {
	for i, f := range c.Fields {
		if f.Name == name {
			return i, true
		}
	}
	return -1, false
}

// Object is an instance of a record class, or an enum constant
type Object struct {
	class  *Class
	fields []Value

	// enum constants
	name    string
	ordinal int
}

func (o *Object) Class() *Class { return o.class }

// String renders records as Tag[a=1, b=2] and enum constants by name
func (o *Object) String() string {
	if o == nil {
		return "null"
	}
	if o.class.IsEnum() {
		return o.name
	}
	var b strings.Builder
	b.WriteString(o.class.Tag)
	b.WriteByte('[')
	for i, f := range o.class.Fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.Name)
		b.WriteByte('=')
		b.WriteString(o.fields[i].String())
	}
	b.WriteByte(']')
	return b.String()
}

// Catalog indexes classes by qualified name and by (family, tag)
type Catalog struct {
	classes  map[string]*Class
	variants map[string]map[string]*Class
}

// NewCatalog creates a catalog from class declarations
func NewCatalog(classes ...*Class) (*Catalog, error) {
	c := &Catalog{
		classes:  make(map[string]*Class),
		variants: make(map[string]map[string]*Class),
	}
	for _, cls := range classes {
		if err := c.Add(cls); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Add registers a class; names and (family, tag) pairs must be unique
func (c *Catalog) Add(cls *Class) error {
	if _, exists := c.classes[cls.Name]; exists {
		return fmt.Errorf("class already declared: %s", cls.Name)
	}
	tag := cls.Tag
	if cls.IsEnum() {
		tag = ""
	}
	fam := c.variants[cls.Family]
	if fam == nil {
		fam = make(map[string]*Class)
		c.variants[cls.Family] = fam
	}
	if _, exists := fam[tag]; exists {
		return fmt.Errorf("variant already declared: %s.%s", cls.Family, tag)
	}
	c.classes[cls.Name] = cls
	fam[tag] = cls
	return nil
}

// Class looks up a class by qualified name
func (c *Catalog) Class(name string) (*Class, bool) {
	cls, ok := c.classes[name]
	return cls, ok
}

// Variant looks up a record class by family and tag
func (c *Catalog) Variant(family, tag string) (*Class, bool) {
	cls, ok := c.variants[family][tag]
	return cls, ok
}

// Enum looks up the enum class of a family
func (c *Catalog) Enum(family string) (*Class, bool) {
	cls, ok := c.variants[family][""]
	if !ok || !cls.IsEnum() {
		return nil, false
	}
	return cls, true
}

// Tags lists the variant tags of a family in sorted order
func (c *Catalog) Tags(family string) []string {
	fam := c.variants[family]
	tags := make([]string, 0, len(fam))
	for tag := range fam {
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	sort.Strings(tags)
	return tags
}
