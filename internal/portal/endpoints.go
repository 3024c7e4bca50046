package portal

import "fmt"

// Backend paths. Authentication is the only unauthenticated call.
const (
	PathLogin         = "/tokens/token"
	PathEmployees     = "/emps"
	PathCreateProject = "/projects/createProject"
)

// EmployeePath addresses one employee (GET and PUT).
func EmployeePath(id int) string { return fmt.Sprintf("/emps/%d", id) }

// EmployeesBySupervisorPath lists employees supervised by id.
func EmployeesBySupervisorPath(id int) string { return fmt.Sprintf("/emps/supervisor/%d", id) }

// ProjectPath addresses one project (GET and PUT).
func ProjectPath(id int) string { return fmt.Sprintf("/projects/%d", id) }

// ProjectDetailsPath returns the expanded project view.
func ProjectDetailsPath(id int) string { return fmt.Sprintf("/projects/projectDetails/%d", id) }

// ProjectsByEmployeePath lists projects an employee is assigned to.
func ProjectsByEmployeePath(id int) string { return fmt.Sprintf("/projects/emp/%d", id) }

// ProjectsBySupervisorPath lists projects supervised by id.
func ProjectsBySupervisorPath(id int) string { return fmt.Sprintf("/projects/supervisor/%d", id) }
