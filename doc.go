/*
Ormlet is an object-relational mapping layer for SQL databases built around
explicit change tracking: entities are plain tagged Go structs, queries are
described with typed predicate trees instead of SQL strings, and writes are
deferred until a unit of work flushes them in one coordinated pass.

# Basics

An entity is a struct whose fields carry `db` tags naming their columns and
mapping flags:

	type Customer struct {
		ID     int64  `db:"id,primarykey,autoincrement"`
		Name   string `db:"customer_name,maxlength=120"`
		Age    int    `db:"age"`
		Active bool   `db:"is_active"`
	}

The table name is the pluralized snake_case type name (customers), unless
the type implements TableName() string.

A unit of work owns a tracker and hands out typed repositories:

	db := ormlet.NewDB(sqldb)
	uow := ormlet.NewUnitOfWork(db)
	customers, err := ormlet.GetRepository[Customer](uow)

Reads compile predicate trees to parameterized WHERE clauses and register
the mapped rows as Unchanged:

	adults, err := customers.Find(ctx, ormlet.And(
		ormlet.Col("Age").Gt(18),
		ormlet.Col("Active").Eq(true),
	))

Writes are recorded against the tracker and flushed together:

	customers.Add(&Customer{Name: "Jo", Age: 31, Active: true})
	n, err := uow.SaveChanges(ctx)

SaveChanges emits one INSERT, UPDATE or DELETE per dirty entity, captures
generated keys back onto Added entities, and resets the surviving entries
to Unchanged. In-place mutation of a tracked entity is picked up by
snapshot diffing when the flush runs; code that wants eager state
transitions can call UnitOfWork.MarkDirty after mutating a field.

Transactions delegate to the underlying database: Begin, Commit and
Rollback on the unit of work wrap the database/sql transaction, and
SaveChanges executes against whichever transaction is active, or
auto-commits per statement when none is.
*/
package ormlet
