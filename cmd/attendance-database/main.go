package main

import (
	"embed"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/urfave/cli"

	"github.com/bbyours/attendance-server/config"
	"github.com/bbyours/attendance-server/metadata/models"
)

//go:embed schema/*.sql
var schemaAssets embed.FS

func main() {

	app := cli.NewApp()
	app.Name = "attendance-database"
	app.Usage = "attendance database manager for setup and seeding"

	// Declare flags common to commands, and pass them in Flags below.
	confFlag := cli.StringFlag{
		Name:  "conf",
		Usage: "Path to yaml config",
	}

	force := cli.BoolFlag{
		Name:  "force",
		Usage: "ignore safety checks and initialize drop/recreate of schema",
	}

	rootUser := cli.StringFlag{
		Name:  "rootUser",
		Usage: "user required for schema modification; has default for test ",
		Value: "root",
	}

	rootPassword := cli.StringFlag{
		Name:  "rootPassword",
		Usage: "password required for schema modification; has default for test ",
		Value: "dbRootPassword",
	}

	seedPassword := cli.StringFlag{
		Name:  "seedPassword",
		Usage: "sign in password given to every seeded account; must be exactly 12 characters",
		Value: "ChangeMe1234",
	}

	app.Commands = []cli.Command{
		{
			Name:  "init",
			Usage: "Connect and initialize mysql database",
			Flags: []cli.Flag{confFlag, force, rootPassword, rootUser, seedPassword},
			Action: func(clictx *cli.Context) error {
				fmt.Println("Initializing database.")
				err := initialize(clictx)
				if err != nil {
					log.Fatal(err)
				}
				return nil
			},
		},
		{
			Name:  "status",
			Usage: "Print schema version and row counts for configured database",
			Flags: []cli.Flag{confFlag},
			Action: func(clictx *cli.Context) error {
				fmt.Println("Checking DB status.")
				err := status(clictx)
				if err != nil {
					log.Fatal(err)
				}
				return nil
			},
		},
	}

	// Global flags. Used when no "command" passed. Must be repeated above for commands.
	app.Flags = []cli.Flag{
		confFlag,
	}

	// There is no "default" command. Print help and exit.
	app.Action = func(clictx *cli.Context) error {
		fmt.Printf("Must specify command. Run `%s help` for info", app.Name)
		return nil
	}

	app.Run(os.Args)
}

// initialize creates a new database from scratch. Root creds are required.
func initialize(clictx *cli.Context) error {

	seedPassword := clictx.String("seedPassword")
	if len(seedPassword) != models.PasswordLength {
		return fmt.Errorf("seedPassword must be exactly %d characters", models.PasswordLength)
	}

	dbConf := loadDatabaseConfig(clictx)
	dbConf.Username = clictx.String("rootUser")
	dbConf.Password = clictx.String("rootPassword")

	fmt.Println("connecting to db")
	db, err := newDBConn(dbConf)
	if err != nil {
		return fmt.Errorf("could not connect to db: %v", err)
	}
	tries := 10
	for i := 0; i < tries; i++ {
		if err := db.Ping(); err != nil {
			fmt.Printf("could not ping db: %v\n", err)
			time.Sleep(2 * time.Second)
		} else {
			fmt.Println("database connection established")
			break
		}
	}
	if err := db.Ping(); err != nil {
		return fmt.Errorf("could not ping db: %v", err)
	}
	defer db.Close()
	force := clictx.Bool("force")
	fmt.Println("force schema creation:", force)

	if !isDBEmpty(db) && !force {
		return errors.New("Database is not empty. Please review which DB you're connecting to or run with --force=true.")
	}
	fmt.Println("DB is ready to receive schema")
	if err := createSchema(db); err != nil {
		return err
	}
	fmt.Println("schema created")
	if err := createSeedData(db, seedPassword); err != nil {
		return err
	}
	fmt.Println("seed data loaded")
	return nil
}

// status reports on the status of the DB given the credentials provided.
func status(clictx *cli.Context) error {

	dbConf := loadDatabaseConfig(clictx)

	db, err := newDBConn(dbConf)
	if err != nil {
		return fmt.Errorf("could not create db connection: %v", err)
	}
	defer db.Close()

	if isDBEmpty(db) {
		fmt.Println("database is empty")
		return nil
	}

	var state models.DBState
	if err := db.Unsafe().Get(&state, "select schemaVersion, identifier from dbstate"); err != nil {
		return fmt.Errorf("could not read dbstate: %v", err)
	}
	fmt.Printf("schema version: %s\n", state.SchemaVersion)
	fmt.Printf("identifier: %s\n", state.Identifier)

	tables := []string{"employee", "attendance", "approval_request", "inventory_item",
		"inventory_transaction", "message", "payslip", "security_log"}
	for _, table := range tables {
		var count int64
		if err := db.Get(&count, "select count(*) from "+table); err != nil {
			return fmt.Errorf("could not count rows in %s: %v", table, err)
		}
		fmt.Printf("%s rows: %d\n", table, count)
	}
	return nil
}

// loadDatabaseConfig resolves database settings from the optional yaml conf
// and the AT_DB_* environment variables.
func loadDatabaseConfig(clictx *cli.Context) config.DatabaseConfiguration {
	opts := config.CommandLineOpts{Conf: clictx.String("conf")}
	conf := config.NewAppConfiguration(opts)
	return conf.DatabaseConnection
}

// newDBConn provides a database connection with the given config. For a root
// connection, set Username and Password directly on the conf.
func newDBConn(conf config.DatabaseConfiguration) (*sqlx.DB, error) {
	return conf.GetDatabaseHandle()
}

// isDBEmpty tries to find table "employee". If it exists, the schema is
// already initialized. This function can be enhanced with additional checks
// for more tables.
func isDBEmpty(db *sqlx.DB) bool {

	fmt.Println("performing schema check")

	var name []string
	stmt := `select table_name from information_schema.tables where table_schema = database() and table_name = 'employee'`
	err := db.Select(&name, stmt)
	if err != nil {
		log.Println("could not do query:", err)
		return false
	}
	return len(name) == 0
}

// execStmt executes a SQL string against the database.
func execStmt(db *sqlx.DB, stmt string) error {
	log.Printf("executing statement: %s\n", stmt)
	results, err := db.Exec(stmt)
	if err != nil {
		return err
	}
	n, err := results.RowsAffected()
	if err != nil {
		return err
	}
	log.Printf("rows affected: %v\n", n)
	return err
}

// execFile splits a SQL file on semicolon (";"), and iteratively executes the commands.
// Splitting is necessary because our DB driver does not support multiple statement execution.
func execFile(db *sqlx.DB, path string) error {

	fmt.Println("executing SQL:", path)
	data, err := asset(path)
	if err != nil {
		return err
	}
	stringified := string(data)
	commands := strings.Split(stringified, ";")
	total := int64(0)
	for _, cmd := range commands {
		cleaned := strings.TrimSpace(cmd)
		if cleaned == "" {
			continue
		}
		results, err := db.Exec(cleaned)
		if err != nil {
			return err
		}
		n, err := results.RowsAffected()
		if err != nil {
			return err
		}
		total += n
	}
	fmt.Println("total rows affected:", total)

	return nil
}

// execFileIgnoreError runs each statement in the file and reports failures
// without stopping. Drop files run against partially created schemas where
// some statements have nothing to act on.
func execFileIgnoreError(db *sqlx.DB, path string) error {

	fmt.Println("executing SQL:", path)
	data, err := asset(path)
	if err != nil {
		return err
	}
	commands := strings.Split(string(data), ";")
	for _, cmd := range commands {
		cleaned := strings.TrimSpace(cmd)
		if cleaned == "" {
			continue
		}
		if _, err := db.Exec(cleaned); err != nil {
			log.Printf("statement failed: %v\n", err)
		}
	}
	return nil
}

// execStmtTx executes a SQL string against the provided transaction.
// It is the caller's responsibility to commit or rollback the transaction.
func execStmtTx(tx *sqlx.Tx, stmt string) error {

	_, err := tx.Exec(stmt)
	if err != nil {
		return err
	}

	return nil
}

// declareProc wraps declaration of a trigger or stored procedure in a file
// as a single transactional statement. There can be no calls to DELIMITER
// in the files, and there can be only one statement per file.
func declareProc(db *sqlx.DB, path string) error {

	data, err := asset(path)
	if err != nil {
		return err
	}
	tx := db.MustBegin()
	if err := execStmtTx(tx, string(data)); err != nil {
		tx.Rollback()
		return err
	}
	err = tx.Commit()
	if err != nil {
		return err
	}

	return nil
}

// asset returns the named schema file compiled into the binary.
func asset(path string) ([]byte, error) {
	return schemaAssets.ReadFile(path)
}
