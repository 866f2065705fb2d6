package typeinfo

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type Customer struct {
	ID      int64     `db:"id,primarykey,autoincrement"`
	Name    string    `db:"customer_name,maxlength=120"`
	Age     int       `db:"age"`
	Active  bool      `db:"is_active"`
	Joined  time.Time `db:"joined_at"`
	Note    *string   `db:"note,nullable"`
	Ignored string
}

type Order struct {
	ID         int64 `db:"id,primarykey,autoincrement"`
	CustomerID int64 `db:"customer_id,references=Customer.id"`
	Total      float64
}

func (Order) TableName() string { return "order_book" }

func TestResolveSimpleConcurrent(t *testing.T) {
	type mystruct struct {
		ID int `db:"id"`
	}
	catalog := NewCatalog()
	wg := sync.WaitGroup{}

	// Set up some concurrent access.
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			_, _ = catalog.Resolve(mystruct{})
			wg.Done()
		}()
	}

	info, err := catalog.Resolve(mystruct{})
	assert.Nil(t, err)
	assert.Equal(t, "mystruct", info.Type.Name())
	assert.Equal(t, "mystructs", info.Table)

	wg.Wait()
}

func TestResolveIsCached(t *testing.T) {
	catalog := NewCatalog()
	first, err := catalog.Resolve(Customer{})
	assert.Nil(t, err)
	second, err := catalog.Resolve(&Customer{})
	assert.Nil(t, err)
	assert.Same(t, first, second)

	catalog.Clear()
	third, err := catalog.Resolve(Customer{})
	assert.Nil(t, err)
	assert.NotSame(t, first, third)
}

func TestResolveBindings(t *testing.T) {
	catalog := NewCatalog()
	info, err := catalog.Resolve(Customer{})
	assert.Nil(t, err)

	assert.Equal(t, "customers", info.Table)
	assert.Len(t, info.Bindings, 6)
	assert.Equal(t,
		[]string{"ID", "Name", "Age", "Active", "Joined", "Note"},
		info.FieldNames())

	id, ok := info.Binding("ID")
	assert.True(t, ok)
	assert.Equal(t, "id", id.Column)
	assert.True(t, id.PrimaryKey)
	assert.True(t, id.AutoIncrement)

	name, ok := info.BindingForColumn("customer_name")
	assert.True(t, ok)
	assert.Equal(t, "Name", name.Name)
	assert.Equal(t, 120, name.MaxLength)

	note, ok := info.Binding("Note")
	assert.True(t, ok)
	assert.True(t, note.Nullable)

	_, ok = info.Binding("Ignored")
	assert.False(t, ok)

	pk, err := info.PrimaryKey()
	assert.Nil(t, err)
	assert.Same(t, id, pk)
}

func TestResolveTableNamer(t *testing.T) {
	catalog := NewCatalog()
	info, err := catalog.Resolve(Order{})
	assert.Nil(t, err)
	assert.Equal(t, "order_book", info.Table)

	fk, ok := info.Binding("CustomerID")
	assert.True(t, ok)
	assert.Equal(t, "Customer.id", fk.References)
}

func TestColumnSubsets(t *testing.T) {
	catalog := NewCatalog()
	info, err := catalog.Resolve(Customer{})
	assert.Nil(t, err)

	inserts := info.InsertColumns()
	assert.Len(t, inserts, 5)
	for _, b := range inserts {
		assert.False(t, b.AutoIncrement)
	}

	updates := info.UpdateColumns()
	assert.Len(t, updates, 5)
	for _, b := range updates {
		assert.False(t, b.PrimaryKey)
	}
}

func TestMissingPrimaryKey(t *testing.T) {
	type NoKey struct {
		Name string `db:"name"`
	}
	catalog := NewCatalog()
	info, err := catalog.Resolve(NoKey{})
	assert.Nil(t, err)

	_, err = info.PrimaryKey()
	var missing *MissingPrimaryKeyError
	assert.ErrorAs(t, err, &missing)
	assert.Equal(t, "NoKey", missing.TypeName)
}

func TestResolveErrors(t *testing.T) {
	catalog := NewCatalog()

	type doubleKey struct {
		A int `db:"a,primarykey"`
		B int `db:"b,primarykey"`
	}
	_, err := catalog.Resolve(doubleKey{})
	assert.ErrorContains(t, err, "more than one primary key")

	type badFlag struct {
		A int `db:"a,bogus"`
	}
	_, err = catalog.Resolve(badFlag{})
	assert.ErrorContains(t, err, `unsupported flag "bogus"`)

	type badColumn struct {
		A int `db:"a b"`
	}
	_, err = catalog.Resolve(badColumn{})
	assert.ErrorContains(t, err, "invalid column name")

	type dupeColumn struct {
		A int `db:"x"`
		B int `db:"x"`
	}
	_, err = catalog.Resolve(dupeColumn{})
	assert.ErrorContains(t, err, `multiple fields with column "x"`)

	type untagged struct {
		A int
	}
	_, err = catalog.Resolve(untagged{})
	assert.ErrorContains(t, err, `no "db" tags`)

	type autoNoKey struct {
		A int `db:"a,autoincrement"`
	}
	_, err = catalog.Resolve(autoNoKey{})
	assert.ErrorContains(t, err, "autoincrement requires primarykey")

	_, err = catalog.Resolve(42)
	assert.ErrorContains(t, err, "non-struct")

	_, err = catalog.Resolve(nil)
	assert.ErrorContains(t, err, "nil")
}

func TestSnakeCase(t *testing.T) {
	assert.Equal(t, "customer", snakeCase("Customer"))
	assert.Equal(t, "order_line", snakeCase("OrderLine"))
	assert.Equal(t, "http_request", snakeCase("HTTPRequest"))
	assert.Equal(t, "id", snakeCase("ID"))
}
