package example

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/seaware/ormlet"

	_ "github.com/mattn/go-sqlite3"
)

type Employee struct {
	ID   int64  `db:"id,primarykey,autoincrement"`
	Name string `db:"name"`
	Team string `db:"team"`
}

func example() {
	sqldb, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		panic(err)
	}

	db := ormlet.NewDB(sqldb)
	_, err = db.PlainDB().Exec(`
	CREATE TABLE employees (
		id integer PRIMARY KEY AUTOINCREMENT,
		name text,
		team text
	)`)
	if err != nil {
		panic(err)
	}

	ctx := context.Background()
	uow := ormlet.NewUnitOfWork(db)
	employees, err := ormlet.GetRepository[Employee](uow)
	if err != nil {
		panic(err)
	}

	// Register new employees. Nothing is written until SaveChanges.
	var al = Employee{Name: "Alastair", Team: "engineering"}
	var ed = Employee{Name: "Ed", Team: "engineering"}
	var pedro = Employee{Name: "Pedro", Team: "management"}
	var joe = Employee{Name: "Joe", Team: "marketing"}
	for _, e := range []*Employee{&al, &ed, &pedro, &joe} {
		if err := employees.Add(e); err != nil {
			panic(err)
		}
	}

	n, err := uow.SaveChanges(ctx)
	if err != nil {
		panic(err)
	}
	fmt.Printf("flushed %d inserts, Alastair got id %d\n", n, al.ID)

	// Find the engineering team with a typed predicate.
	engineers, err := employees.Find(ctx, ormlet.Col("Team").Eq("engineering"))
	if err != nil {
		panic(err)
	}
	for _, e := range engineers {
		fmt.Printf("%s is on the engineering team\n", e.Name)
	}

	// In-place mutation is detected and flushed as an UPDATE.
	pedro.Team = "leadership"
	n, err = uow.SaveChanges(ctx)
	if err != nil {
		panic(err)
	}
	fmt.Printf("flushed %d update\n", n)

	// Deletions are deferred the same way.
	if err := employees.Delete(&joe); err != nil {
		panic(err)
	}
	if _, err := uow.SaveChanges(ctx); err != nil {
		panic(err)
	}

	count, err := employees.Count(ctx, nil)
	if err != nil {
		panic(err)
	}
	fmt.Printf("%d employees remain\n", count)
}
