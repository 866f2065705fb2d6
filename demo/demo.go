// Command demo runs the ormlet flows against a single-node dqlite
// cluster instead of a plain SQLite file, showing that the generated
// statements only assume the SQLite dialect, not a particular driver.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/canonical/go-dqlite/app"

	"github.com/seaware/ormlet"
)

type Account struct {
	ID      int64  `db:"id,primarykey,autoincrement"`
	Owner   string `db:"owner"`
	Balance int64  `db:"balance"`
}

func demo() error {
	dir, err := os.MkdirTemp("", "ormlet-demo")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	node, err := app.New(dir, app.WithAddress("127.0.0.1:9001"))
	if err != nil {
		return err
	}
	defer node.Close()

	ctx := context.Background()
	if err := node.Ready(ctx); err != nil {
		return err
	}

	sqldb, err := node.Open(ctx, "demo")
	if err != nil {
		return err
	}
	defer sqldb.Close()

	if _, err := sqldb.Exec(`
	CREATE TABLE IF NOT EXISTS accounts (
		id integer PRIMARY KEY AUTOINCREMENT,
		owner text,
		balance integer
	)`); err != nil {
		return err
	}

	db := ormlet.NewDB(sqldb)
	uow := ormlet.NewUnitOfWork(db)
	accounts, err := ormlet.GetRepository[Account](uow)
	if err != nil {
		return err
	}

	jim := &Account{Owner: "Jim", Balance: 100}
	saba := &Account{Owner: "Saba", Balance: 2500}
	if err := accounts.Add(jim); err != nil {
		return err
	}
	if err := accounts.Add(saba); err != nil {
		return err
	}
	if _, err := uow.SaveChanges(ctx); err != nil {
		return err
	}
	fmt.Printf("created accounts %d and %d\n", jim.ID, saba.ID)

	// Transfer inside a transaction so both updates land together.
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	jim.Balance += 500
	saba.Balance -= 500
	if _, err := uow.SaveChanges(ctx); err != nil {
		uow.Rollback()
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	rich, err := accounts.Find(ctx, ormlet.Col("Balance").Ge(600))
	if err != nil {
		return err
	}
	for _, a := range rich {
		fmt.Printf("%s holds %d\n", a.Owner, a.Balance)
	}
	return nil
}

func main() {
	if err := demo(); err != nil {
		panic(err)
	}
}
