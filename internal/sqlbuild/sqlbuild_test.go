package sqlbuild_test

import (
	"database/sql"
	"testing"

	. "gopkg.in/check.v1"

	"github.com/seaware/ormlet/internal/predicate"
	"github.com/seaware/ormlet/internal/sqlbuild"
	"github.com/seaware/ormlet/internal/typeinfo"
)

// Hook up gocheck into the "go test" runner.
func TestSQLBuild(t *testing.T) { TestingT(t) }

type BuildSuite struct {
	info *typeinfo.Info
}

var _ = Suite(&BuildSuite{})

type Customer struct {
	ID     int64  `db:"id,primarykey,autoincrement"`
	Name   string `db:"customer_name"`
	Age    int    `db:"age"`
	Active bool   `db:"is_active"`
}

func (s *BuildSuite) SetUpSuite(c *C) {
	info, err := typeinfo.NewCatalog().Resolve(Customer{})
	c.Assert(err, IsNil)
	s.info = info
}

func values(c *C, args []any) []any {
	var vals []any
	for _, arg := range args {
		named, ok := arg.(sql.NamedArg)
		c.Assert(ok, Equals, true)
		vals = append(vals, named.Value)
	}
	return vals
}

func (s *BuildSuite) TestSelectDefaults(c *C) {
	query, params, err := sqlbuild.NewSelect().From("customers").Build()
	c.Assert(err, IsNil)
	c.Check(query, Equals, "SELECT * FROM customers")
	c.Check(params, HasLen, 0)
}

func (s *BuildSuite) TestSelectEmissionOrder(c *C) {
	b := sqlbuild.NewSelect().
		Columns("c.customer_name", "COUNT(o.id)").
		FromAs("customers", "c").
		Join(sqlbuild.InnerJoin, "orders o", "o.customer_id = c.id").
		Join(sqlbuild.LeftJoin, "addresses a", "a.customer_id = c.id").
		GroupBy("c.customer_name").
		OrderBy("c.customer_name", sqlbuild.Asc).
		OrderBy("c.id", sqlbuild.Desc).
		Limit(10).
		Offset(20).
		Distinct()
	b.Where("[age] > " + b.Bind(18))
	b.OrWhere("[is_active] = " + b.Bind(true))

	query, params, err := b.Build()
	c.Assert(err, IsNil)
	c.Check(query, Equals,
		"SELECT DISTINCT c.customer_name, COUNT(o.id) "+
			"FROM customers AS c "+
			"JOIN orders o ON o.customer_id = c.id "+
			"LEFT JOIN addresses a ON a.customer_id = c.id "+
			"WHERE [age] > @p0 OR [is_active] = @p1 "+
			"GROUP BY c.customer_name "+
			"ORDER BY c.customer_name ASC, c.id DESC "+
			"LIMIT 10 OFFSET 20")
	c.Check(values(c, params), DeepEquals, []any{18, true})
}

func (s *BuildSuite) TestSelectPredicate(c *C) {
	b := sqlbuild.NewSelect().From("customers")
	b.WherePredicate(s.info, predicate.Col("Age").Gt(18))
	b.WherePredicate(s.info, predicate.Col("Active").Eq(true))
	b.OrWherePredicate(s.info, predicate.Col("Name").Eq("Jo"))

	query, params, err := b.Build()
	c.Assert(err, IsNil)
	c.Check(query, Equals,
		"SELECT * FROM customers WHERE [age] > @p0 AND [is_active] = @p1 OR [customer_name] = @p2")
	c.Check(values(c, params), DeepEquals, []any{18, true, "Jo"})
}

func (s *BuildSuite) TestSelectPredicateError(c *C) {
	b := sqlbuild.NewSelect().From("customers")
	b.WherePredicate(s.info, predicate.Col("Nope").Eq(1))
	_, _, err := b.Build()
	c.Assert(err, ErrorMatches, `type "Customer" has no mapped field "Nope"`)
}

func (s *BuildSuite) TestSelectCount(c *C) {
	b := sqlbuild.NewSelect().
		Columns("customer_name").
		From("customers").
		OrderBy("customer_name", sqlbuild.Asc).
		Limit(5)
	b.Where("[age] > " + b.Bind(18))

	query, params, err := b.BuildCount()
	c.Assert(err, IsNil)
	c.Check(query, Equals, "SELECT COUNT(*) FROM customers WHERE [age] > @p0")
	c.Check(values(c, params), DeepEquals, []any{18})
}

func (s *BuildSuite) TestSelectNeedsTable(c *C) {
	_, _, err := sqlbuild.NewSelect().Build()
	c.Assert(err, ErrorMatches, "cannot build SELECT without a source table")
}

func (s *BuildSuite) TestInsertExplicit(c *C) {
	query, params, err := sqlbuild.NewInsert().
		Into("customers").
		Set("customer_name", "Jo").
		Set("age", 31).
		Build()
	c.Assert(err, IsNil)
	c.Check(query, Equals,
		"INSERT INTO customers ([customer_name], [age]) VALUES (@p0, @p1)")
	c.Check(values(c, params), DeepEquals, []any{"Jo", 31})
}

func (s *BuildSuite) TestInsertFromEntity(c *C) {
	entity := &Customer{Name: "Jo", Age: 31, Active: true}
	query, params, err := sqlbuild.NewInsert().Columns(s.info, entity).Build()
	c.Assert(err, IsNil)
	// The generated key column is omitted.
	c.Check(query, Equals,
		"INSERT INTO customers ([customer_name], [age], [is_active]) VALUES (@p0, @p1, @p2)")
	c.Check(values(c, params), DeepEquals, []any{"Jo", 31, true})
}

func (s *BuildSuite) TestInsertReturning(c *C) {
	query, _, err := sqlbuild.NewInsert().
		Into("customers").
		Set("customer_name", "Jo").
		Returning("id").
		Build()
	c.Assert(err, IsNil)
	c.Check(query, Equals,
		"INSERT INTO customers ([customer_name]) VALUES (@p0) RETURNING [id]")
}

func (s *BuildSuite) TestUpdateFromEntity(c *C) {
	entity := &Customer{ID: 7, Name: "Jo", Age: 32, Active: false}
	b := sqlbuild.NewUpdate().Columns(s.info, entity)
	b.Where("[id] = " + b.Bind(int64(7)))

	query, params, err := b.Build()
	c.Assert(err, IsNil)
	// The primary key column is not written.
	c.Check(query, Equals,
		"UPDATE customers SET [customer_name] = @p0, [age] = @p1, [is_active] = @p2 WHERE [id] = @p3")
	c.Check(values(c, params), DeepEquals, []any{"Jo", 32, false, int64(7)})
}

func (s *BuildSuite) TestUpdateWithoutWhere(c *C) {
	b := sqlbuild.NewUpdate().Table("customers").Set("age", 1)
	_, _, err := b.Build()
	c.Assert(err, NotNil)
	uerr, ok := err.(*sqlbuild.UnsafeStatementError)
	c.Assert(ok, Equals, true)
	c.Check(uerr.Statement, Equals, "UPDATE")
	c.Check(uerr, ErrorMatches, "refusing to build UPDATE statement without a WHERE clause")

	// The same statement succeeds once any condition is added.
	b = sqlbuild.NewUpdate().Table("customers").Set("age", 1)
	b.WherePredicate(s.info, predicate.Col("ID").Eq(7))
	query, _, err := b.Build()
	c.Assert(err, IsNil)
	c.Check(query, Equals, "UPDATE customers SET [age] = @p0 WHERE [id] = @p1")
}

func (s *BuildSuite) TestDelete(c *C) {
	b := sqlbuild.NewDelete().From("customers")
	b.Where("[id] = " + b.Bind(int64(7)))
	query, params, err := b.Build()
	c.Assert(err, IsNil)
	c.Check(query, Equals, "DELETE FROM customers WHERE [id] = @p0")
	c.Check(values(c, params), DeepEquals, []any{int64(7)})
}

func (s *BuildSuite) TestDeleteWithoutWhere(c *C) {
	_, _, err := sqlbuild.NewDelete().From("customers").Build()
	c.Assert(err, NotNil)
	uerr, ok := err.(*sqlbuild.UnsafeStatementError)
	c.Assert(ok, Equals, true)
	c.Check(uerr.Statement, Equals, "DELETE")
}

func (s *BuildSuite) TestParameterNumberingIsBuilderLocal(c *C) {
	// Builders never share parameter counters.
	first := sqlbuild.NewSelect().From("customers")
	second := sqlbuild.NewSelect().From("orders")
	c.Check(first.Bind(1), Equals, "@p0")
	c.Check(first.Bind(2), Equals, "@p1")
	c.Check(second.Bind(3), Equals, "@p0")
}
