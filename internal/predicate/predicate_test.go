package predicate_test

import (
	"database/sql"
	"testing"

	. "gopkg.in/check.v1"

	"github.com/seaware/ormlet/internal/predicate"
	"github.com/seaware/ormlet/internal/sqlbuild"
	"github.com/seaware/ormlet/internal/typeinfo"
)

// Hook up gocheck into the "go test" runner.
func TestPredicate(t *testing.T) { TestingT(t) }

type CompileSuite struct {
	info *typeinfo.Info
}

var _ = Suite(&CompileSuite{})

type Customer struct {
	ID     int64   `db:"id,primarykey,autoincrement"`
	Name   string  `db:"customer_name"`
	Age    int     `db:"age"`
	Active bool    `db:"is_active"`
	Email  *string `db:"email,nullable"`
}

func (s *CompileSuite) SetUpSuite(c *C) {
	info, err := typeinfo.NewCatalog().Resolve(Customer{})
	c.Assert(err, IsNil)
	s.info = info
}

// paramValues unwraps the named parameters into their bound values, in
// binding order.
func paramValues(c *C, args []any) []any {
	var values []any
	for _, arg := range args {
		named, ok := arg.(sql.NamedArg)
		c.Assert(ok, Equals, true)
		values = append(values, named.Value)
	}
	return values
}

func (s *CompileSuite) TestCompile(c *C) {
	var tests = []struct {
		summary  string
		pred     predicate.Expr
		expected string
		params   []any
	}{{
		"equality",
		predicate.Col("Name").Eq("Jo"),
		"[customer_name] = @p0",
		[]any{"Jo"},
	}, {
		"inequality",
		predicate.Col("Age").Ne(30),
		"[age] <> @p0",
		[]any{30},
	}, {
		"ordering operators",
		predicate.And(predicate.Col("Age").Ge(18), predicate.Col("Age").Lt(65)),
		"([age] >= @p0) AND ([age] < @p1)",
		[]any{18, 65},
	}, {
		"conjunction binds in emission order",
		predicate.And(predicate.Col("Age").Gt(18), predicate.Col("Active").Eq(true)),
		"([age] > @p0) AND ([is_active] = @p1)",
		[]any{18, true},
	}, {
		"disjunction",
		predicate.Or(predicate.Col("Name").Eq("Jo"), predicate.Col("Name").Eq("Sam")),
		"([customer_name] = @p0) OR ([customer_name] = @p1)",
		[]any{"Jo", "Sam"},
	}, {
		"negation",
		predicate.Not(predicate.Col("Active").Eq(true)),
		"NOT ([is_active] = @p0)",
		[]any{true},
	}, {
		"equality to nil is IS NULL",
		predicate.Col("Email").Eq(nil),
		"[email] IS NULL",
		nil,
	}, {
		"inequality to nil is IS NOT NULL",
		predicate.Col("Email").Ne(nil),
		"[email] IS NOT NULL",
		nil,
	}, {
		"contains",
		predicate.Col("Name").Contains("Jo"),
		"[customer_name] LIKE @p0",
		[]any{"%Jo%"},
	}, {
		"starts with",
		predicate.Col("Name").StartsWith("Jo"),
		"[customer_name] LIKE @p0",
		[]any{"Jo%"},
	}, {
		"ends with",
		predicate.Col("Name").EndsWith("sen"),
		"[customer_name] LIKE @p0",
		[]any{"%sen"},
	}, {
		"upper under comparison",
		predicate.Col("Name").Upper().Eq("JO"),
		"UPPER([customer_name]) = @p0",
		[]any{"JO"},
	}, {
		"lower under comparison",
		predicate.Col("Name").Lower().Eq("jo"),
		"LOWER([customer_name]) = @p0",
		[]any{"jo"},
	}, {
		"trim under comparison",
		predicate.Col("Name").Trim().Eq("Jo"),
		"TRIM([customer_name]) = @p0",
		[]any{"Jo"},
	}, {
		"transform under match call",
		predicate.Col("Name").Upper().Contains("JO"),
		"UPPER([customer_name]) LIKE @p0",
		[]any{"%JO%"},
	}, {
		"set membership",
		predicate.Col("Age").In(20, 30, 40),
		"[age] IN (@p0, @p1, @p2)",
		[]any{20, 30, 40},
	}, {
		"empty set membership never holds",
		predicate.Col("Age").In(),
		"1 = 0",
		nil,
	}, {
		"literal left operand",
		predicate.Value(1).Eq(1),
		"@p0 = @p1",
		[]any{1, 1},
	}, {
		"nested tree",
		predicate.And(
			predicate.Or(predicate.Col("Age").Lt(18), predicate.Col("Age").Gt(65)),
			predicate.Not(predicate.Col("Active").Eq(false)),
		),
		"(([age] < @p0) OR ([age] > @p1)) AND (NOT ([is_active] = @p2))",
		[]any{18, 65, false},
	}}

	for _, t := range tests {
		c.Logf("test: %s", t.summary)
		var params sqlbuild.Params
		fragment, err := predicate.Compile(s.info, t.pred, &params)
		c.Assert(err, IsNil)
		c.Check(fragment, Equals, t.expected)
		if t.params == nil {
			c.Check(params.List(), HasLen, 0)
		} else {
			c.Check(paramValues(c, params.List()), DeepEquals, t.params)
		}
	}
}

func (s *CompileSuite) TestCompileErrors(c *C) {
	var params sqlbuild.Params

	_, err := predicate.Compile(s.info, predicate.Col("Nope").Eq(1), &params)
	c.Assert(err, ErrorMatches, `type "Customer" has no mapped field "Nope"`)

	_, err = predicate.Compile(s.info, predicate.Col("Name").Gt(nil), &params)
	c.Assert(err, ErrorMatches, "cannot compare to NULL with >")
}

func (s *CompileSuite) TestUnsupportedExpression(c *C) {
	var params sqlbuild.Params

	// A bare field reference is not a predicate on its own.
	_, err := predicate.Compile(s.info, predicate.FieldRef("Active"), &params)
	c.Assert(err, NotNil)
	uerr, ok := err.(*predicate.UnsupportedExpressionError)
	c.Assert(ok, Equals, true)
	c.Check(uerr.Kind, Equals, "field")
	c.Check(uerr, ErrorMatches, "cannot translate field expression to SQL")
}
