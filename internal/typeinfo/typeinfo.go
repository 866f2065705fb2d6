// Copyright 2026 Seaware Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package typeinfo

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"github.com/jinzhu/inflection"
)

// TableNamer provides a custom table name for an entity type. Types that do
// not implement it get a table name derived from the type name.
type TableNamer interface {
	TableName() string
}

// Catalog resolves and caches entity metadata. Lookups are pure functions of
// the entity type, so the cache is safe for concurrent readers; on a race to
// resolve the same type the first writer wins and the losing computation is
// discarded.
type Catalog struct {
	mutex sync.RWMutex
	infos map[reflect.Type]*Info
}

// NewCatalog returns an empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{infos: map[reflect.Type]*Info{}}
}

// Resolve returns the Info of the given entity sample, generating and
// caching as required. The sample may be a struct or a pointer to one.
func (c *Catalog) Resolve(sample any) (*Info, error) {
	if sample == (any)(nil) {
		return nil, fmt.Errorf("cannot resolve metadata for nil value")
	}
	t := reflect.TypeOf(sample)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return c.ResolveType(t)
}

// ResolveType is Resolve for a reflect.Type already at hand.
func (c *Catalog) ResolveType(t reflect.Type) (*Info, error) {
	c.mutex.RLock()
	info, found := c.infos[t]
	c.mutex.RUnlock()
	if found {
		return info, nil
	}

	info, err := generate(t)
	if err != nil {
		return nil, err
	}

	c.mutex.Lock()
	// Keep an entry resolved by someone else since we last checked.
	if prior, ok := c.infos[t]; ok {
		info = prior
	} else {
		c.infos[t] = info
	}
	c.mutex.Unlock()

	return info, nil
}

// Clear invalidates the cache. It exists for tests and schema reloads only.
func (c *Catalog) Clear() {
	c.mutex.Lock()
	c.infos = map[reflect.Type]*Info{}
	c.mutex.Unlock()
}

// generate produces the metadata of an entity struct type.
func generate(t reflect.Type) (*Info, error) {
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("cannot resolve metadata for non-struct type %s", t.Kind())
	}
	if t.Name() == "" {
		return nil, fmt.Errorf("cannot resolve metadata for anonymous struct")
	}

	info := &Info{
		Type:     t,
		Table:    tableName(t),
		byField:  map[string]*Binding{},
		byColumn: map[string]*Binding{},
	}

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		// Fields without a "db" tag are outside of ormlet's remit.
		tag := f.Tag.Get("db")
		if tag == "" {
			continue
		}
		if !f.IsExported() {
			return nil, fmt.Errorf("field %q of struct %s not exported", f.Name, t.Name())
		}
		b, err := parseTag(tag)
		if err != nil {
			return nil, fmt.Errorf("cannot parse tag for field %s.%s: %s", t.Name(), f.Name, err)
		}
		b.Name = f.Name
		b.Index = i
		b.Type = f.Type
		if _, dupe := info.byColumn[b.Column]; dupe {
			return nil, fmt.Errorf("struct %s has multiple fields with column %q", t.Name(), b.Column)
		}
		if b.PrimaryKey {
			if info.pk != nil {
				return nil, fmt.Errorf("struct %s has more than one primary key binding", t.Name())
			}
			info.pk = b
		}
		info.Bindings = append(info.Bindings, b)
		info.byField[f.Name] = b
		info.byColumn[b.Column] = b
	}

	if len(info.Bindings) == 0 {
		return nil, fmt.Errorf(`no "db" tags found in struct %q`, t.Name())
	}

	return info, nil
}

// tableName resolves the backing table of an entity type. A TableNamer
// implementation wins; otherwise the type name is snake_cased and
// pluralized.
func tableName(t reflect.Type) string {
	if reflect.PointerTo(t).Implements(tableNamerType) {
		if namer, ok := reflect.New(t).Interface().(TableNamer); ok {
			if name := strings.TrimSpace(namer.TableName()); name != "" {
				return name
			}
		}
	}
	return inflection.Plural(snakeCase(t.Name()))
}

var tableNamerType = reflect.TypeOf((*TableNamer)(nil)).Elem()

// This expression should be aligned with the column names the statement
// builders are prepared to quote.
var validColNameRx = regexp.MustCompile(`^([a-zA-Z_])+([a-zA-Z_0-9])*$`)

// parseTag parses a "db" tag into a partial Binding holding the column name
// and the mapping flags.
func parseTag(tag string) (*Binding, error) {
	options := strings.Split(tag, ",")

	name := options[0]
	if len(name) == 0 {
		return nil, fmt.Errorf("empty db tag")
	}
	if !validColNameRx.MatchString(name) {
		return nil, fmt.Errorf("invalid column name in 'db' tag: %q", name)
	}

	b := &Binding{Column: name}
	for _, flag := range options[1:] {
		switch {
		case flag == "primarykey":
			b.PrimaryKey = true
		case flag == "autoincrement":
			b.AutoIncrement = true
		case flag == "nullable":
			b.Nullable = true
		case strings.HasPrefix(flag, "maxlength="):
			n, err := strconv.Atoi(flag[len("maxlength="):])
			if err != nil || n <= 0 {
				return nil, fmt.Errorf("invalid maxlength in tag %q", tag)
			}
			b.MaxLength = n
		case strings.HasPrefix(flag, "references="):
			target := flag[len("references="):]
			if strings.Count(target, ".") != 1 {
				return nil, fmt.Errorf("references target %q is not of the form Type.column", target)
			}
			b.References = target
		default:
			return nil, fmt.Errorf("unsupported flag %q in tag %q", flag, tag)
		}
	}
	if b.AutoIncrement && !b.PrimaryKey {
		return nil, fmt.Errorf("autoincrement requires primarykey in tag %q", tag)
	}
	return b, nil
}

func snakeCase(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
