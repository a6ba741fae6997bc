package main

import (
	"fmt"
	"math"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/bbyours/attendance-server/metadata/models"
)

// seededBy is the audit identity recorded on rows loaded by this tool.
const seededBy = "attendance-database"

type seedAccount struct {
	code       string
	name       string
	email      string
	role       string
	shiftStart string
	shiftEnd   string
	salary     float64
}

type seedItem struct {
	product string
	price   float64
	stock   int
}

var seedAccounts = []seedAccount{
	{"ADMIN001", "Site Administrator", "admin@bbyours.example", models.RoleAdmin, "08:00", "17:00", 75000},
	{"EMP001", "Alice Fletcher", "alice.fletcher@bbyours.example", models.RoleEmployee, "08:00", "17:00", 52000},
	{"EMP002", "Marcus Webb", "marcus.webb@bbyours.example", models.RoleEmployee, "09:00", "18:00", 48000},
	{"EMP003", "Priya Nair", "priya.nair@bbyours.example", models.RoleEmployee, "14:00", "22:00", 45000},
}

var seedItems = []seedItem{
	{"Coffee Beans 1kg", 5.50, 40},
	{"Safety Gloves", 3.25, 120},
	{"Printer Paper A4", 4.80, 75},
	{"Cleaning Spray", 2.60, 60},
}

// createSeedData loads the accounts, inventory, and payslips a fresh install
// starts with. Every account gets the same starting password and is expected
// to change it after first sign in.
func createSeedData(db *sqlx.DB, password string) error {

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("could not hash seed password: %v", err)
	}

	employeeIDs := make(map[string]string)
	for _, account := range seedAccounts {
		id := models.NewATID().ID
		employeeIDs[account.code] = id
		_, err := db.Exec(`
        insert employee set
            id = ?
            ,createdBy = ?
            ,modifiedBy = ?
            ,employeeCode = ?
            ,name = ?
            ,email = ?
            ,role = ?
            ,passwordHash = ?
            ,shiftStart = ?
            ,shiftEnd = ?
            ,basicSalary = ?
            ,isActive = 1`,
			id, seededBy, seededBy, account.code, account.name, account.email,
			account.role, string(hash), account.shiftStart, account.shiftEnd, account.salary)
		if err != nil {
			return fmt.Errorf("could not seed employee %s: %v", account.code, err)
		}
		fmt.Println("seeded account:", account.code)
	}

	for _, item := range seedItems {
		_, err := db.Exec(`
        insert inventory_item set
            id = ?
            ,createdBy = ?
            ,modifiedBy = ?
            ,product = ?
            ,sellingPrice = ?
            ,stock = ?`,
			models.NewATID().ID, seededBy, seededBy, item.product, item.price, item.stock)
		if err != nil {
			return fmt.Errorf("could not seed inventory item %s: %v", item.product, err)
		}
	}
	fmt.Printf("seeded %d inventory items\n", len(seedItems))

	// One payslip per employee for last month and the current month so the
	// payslip views have data to show immediately. The previous period is
	// derived from the first of the month to stay correct on month ends.
	now := time.Now()
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local)
	periods := []string{
		firstOfMonth.AddDate(0, 0, -1).Format("2006-01"),
		now.Format("2006-01"),
	}
	payslips := 0
	for _, account := range seedAccounts {
		if account.role == models.RoleAdmin {
			continue
		}
		for _, period := range periods {
			allowances := 1500.0
			gross := account.salary + allowances
			deductions := math.Round(gross * 0.15)
			net := gross - deductions
			_, err := db.Exec(`
        insert payslip set
            id = ?
            ,createdBy = ?
            ,modifiedBy = ?
            ,employeeId = ?
            ,period = ?
            ,basicSalary = ?
            ,allowances = ?
            ,grossPay = ?
            ,deductions = ?
            ,netPay = ?`,
				models.NewATID().ID, seededBy, seededBy, employeeIDs[account.code],
				period, account.salary, allowances, gross, deductions, net)
			if err != nil {
				return fmt.Errorf("could not seed payslip for %s period %s: %v", account.code, period, err)
			}
			payslips++
		}
	}
	fmt.Printf("seeded %d payslips\n", payslips)

	return nil
}
