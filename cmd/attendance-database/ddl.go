package main

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// createSchema executes all necessary DDL. Any error is immediately returned.
func createSchema(db *sqlx.DB) error {

	// Drop triggers and constraints
	if err := execFile(db, "schema/triggers.drop.sql"); err != nil {
		return err
	}
	if err := dropConstraints(db); err != nil {
		fmt.Println("ignoring constraint drop failure")
		fmt.Printf("err: %v", err)
	}
	if err := dropTables(db); err != nil {
		fmt.Println("ignoring table drop failure")
		fmt.Printf("err: %v", err)
	}

	// Set collation
	if err := execStmt(db, "ALTER DATABASE CHARACTER SET utf8 COLLATE utf8_unicode_ci"); err != nil {
		return err
	}
	if err := execStmt(db, "SET character_set_client = utf8"); err != nil {
		return err
	}
	if err := execStmt(db, "SET collation_connection = @@collation_database"); err != nil {
		return err
	}

	// Create tables
	if err := createTables(db); err != nil {
		return err
	}

	// Create constraints
	if err := createConstraints(db); err != nil {
		return err
	}

	// Create triggers
	if err := createTriggers(db); err != nil {
		return err
	}

	// Data for state
	if err := execStmt(db, "insert dbstate set modifiedDate = createdDate;"); err != nil {
		return err
	}

	return nil
}

// createConstraints invokes every required create constraint statement.
func createConstraints(db *sqlx.DB) error {

	// All our constraints run from a single, semicolon delimited file.
	if err := execFile(db, "schema/constraints.create.sql"); err != nil {
		return err
	}

	return nil
}

func dropConstraints(db *sqlx.DB) error {
	if err := execFileIgnoreError(db, "schema/constraints.drop.sql"); err != nil {
		return err
	}
	return nil
}

// createTables explicitly invokes every required create table statement.
func createTables(db *sqlx.DB) error {
	if err := execFile(db, "schema/table.dbstate.create.sql"); err != nil {
		return err
	}
	if err := execFile(db, "schema/table.employee.create.sql"); err != nil {
		return err
	}
	if err := execFile(db, "schema/table.attendance.create.sql"); err != nil {
		return err
	}
	if err := execFile(db, "schema/table.approval_request.create.sql"); err != nil {
		return err
	}
	if err := execFile(db, "schema/table.inventory_item.create.sql"); err != nil {
		return err
	}
	if err := execFile(db, "schema/table.inventory_transaction.create.sql"); err != nil {
		return err
	}
	if err := execFile(db, "schema/table.message.create.sql"); err != nil {
		return err
	}
	if err := execFile(db, "schema/table.payslip.create.sql"); err != nil {
		return err
	}
	if err := execFile(db, "schema/table.security_log.create.sql"); err != nil {
		return err
	}
	return nil
}

func dropTables(db *sqlx.DB) error {
	if err := execFileIgnoreError(db, "schema/tables.drop.sql"); err != nil {
		return err
	}

	return nil
}

// createTriggers explicitly invokes every required create trigger statement.
func createTriggers(db *sqlx.DB) error {

	if err := declareProc(db, "schema/triggers.employee.ti_employee.create.sql"); err != nil {
		return err
	}
	if err := declareProc(db, "schema/triggers.employee.tu_employee.create.sql"); err != nil {
		return err
	}
	if err := declareProc(db, "schema/triggers.attendance.ti_attendance.create.sql"); err != nil {
		return err
	}
	if err := declareProc(db, "schema/triggers.attendance.tu_attendance.create.sql"); err != nil {
		return err
	}
	if err := declareProc(db, "schema/triggers.approval_request.ti_approval_request.create.sql"); err != nil {
		return err
	}
	if err := declareProc(db, "schema/triggers.approval_request.tu_approval_request.create.sql"); err != nil {
		return err
	}
	if err := declareProc(db, "schema/triggers.inventory_item.ti_inventory_item.create.sql"); err != nil {
		return err
	}
	if err := declareProc(db, "schema/triggers.inventory_item.tu_inventory_item.create.sql"); err != nil {
		return err
	}
	if err := declareProc(db, "schema/triggers.inventory_transaction.ti_inventory_transaction.create.sql"); err != nil {
		return err
	}
	if err := declareProc(db, "schema/triggers.message.ti_message.create.sql"); err != nil {
		return err
	}
	if err := declareProc(db, "schema/triggers.message.tu_message.create.sql"); err != nil {
		return err
	}
	if err := declareProc(db, "schema/triggers.payslip.ti_payslip.create.sql"); err != nil {
		return err
	}
	if err := declareProc(db, "schema/triggers.payslip.tu_payslip.create.sql"); err != nil {
		return err
	}
	if err := declareProc(db, "schema/triggers.dbstate.ti_dbstate.create.sql"); err != nil {
		return err
	}
	if err := declareProc(db, "schema/triggers.dbstate.tu_dbstate.create.sql"); err != nil {
		return err
	}

	return nil
}
