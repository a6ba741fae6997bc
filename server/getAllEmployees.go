package server

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/bbyours/attendance-server/mapping"
	"github.com/bbyours/attendance-server/metadata/models"
	"github.com/bbyours/attendance-server/protocol"
	"github.com/bbyours/attendance-server/services/audit"
)

// getAllEmployees pages through every employee account for the admin
// roster. Password hashes never leave the model layer.
func (h AppServer) getAllEmployees(ctx context.Context, w http.ResponseWriter, r *http.Request) *AppError {
	gem, _ := GEMFromContext(ctx)
	gem.Action = "list"
	gem.Payload.Audit = audit.WithType(gem.Payload.Audit, "EventSearchQry")
	gem.Payload.Audit = audit.WithAction(gem.Payload.Audit, "PARAMETER_SEARCH")
	gem.Payload.Audit = audit.WithQueryString(gem.Payload.Audit, r.URL.String())
	d := DAOFromContext(ctx)

	pagingRequest := protocol.NewPagingRequest(r)
	results, err := d.GetAllEmployees(mapping.MapPagingRequestToDAOPagingRequest(pagingRequest))
	if err != nil {
		herr := NewAppError(500, err, "Error retrieving employees")
		h.publishError(gem, herr)
		return herr
	}

	apiResponse := protocol.EmployeeResultset{
		Employees: mapping.MapATEmployeesToEmployees(results.Employees),
	}
	apiResponse.TotalRows = results.TotalRows
	apiResponse.PageCount = results.PageCount
	apiResponse.PageNumber = results.PageNumber
	apiResponse.PageSize = results.PageSize
	apiResponse.PageRows = results.PageRows

	h.publishSuccess(gem, w)
	jsonResponse(w, apiResponse)
	return nil
}

// employeeByCode resolves an employee code from a URI into the full account
// record, yielding a 404 the caller can return directly when no account
// carries the code.
func (h AppServer) employeeByCode(ctx context.Context, employeeCode string) (models.ATEmployee, *AppError) {
	d := DAOFromContext(ctx)
	employee, err := d.GetEmployeeByCode(employeeCode)
	if err != nil {
		if err.Error() == sql.ErrNoRows.Error() {
			return employee, NewAppError(404, err, "No such employee")
		}
		return employee, NewAppError(500, err, "Error loading employee record")
	}
	return employee, nil
}
