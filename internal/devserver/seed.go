package devserver

import "github.com/kingrea/staffdesk/internal/portal"

// SeedPassword is the password of every seeded account.
const SeedPassword = "staffdesk"

func intPtr(n int) *int { return &n }

func strPtr(s string) *string { return &s }

// Seed fills s with a small organisation: one supervisor with three direct
// reports, a second-level report, and projects with active and ended
// assignments. Usernames are lower-case first names.
func Seed(s *Store) {
	employees := []portal.Employee{
		{EmployeeID: 1, FirstName: "Dana", LastName: "Whitfield", Email: "dana.whitfield@example.com", IsSecondaryApprover: true},
		{EmployeeID: 2, FirstName: "Ravi", LastName: "Kapoor", Email: "ravi.kapoor@example.com", SupervisorID: intPtr(1)},
		{EmployeeID: 3, FirstName: "Mei", LastName: "Tanaka", Email: "mei.tanaka@example.com", SupervisorID: intPtr(1), IsSecondaryApprover: true},
		{EmployeeID: 4, FirstName: "Owen", LastName: "Brooks", Email: "owen.brooks@example.com", SupervisorID: intPtr(1)},
		{EmployeeID: 5, FirstName: "Lucia", LastName: "Ferrer", Email: "lucia.ferrer@example.com", SupervisorID: intPtr(2)},
	}
	for _, e := range employees {
		_ = s.PutEmployee(e)
		s.AddAccount(e.FirstName, SeedPassword, e.EmployeeID)
	}
	projects := []portal.Project{
		{
			ProjectID: 100, ProjectCode: "APX-1", ProjectName: "Apollo Payroll", SupervisorID: 1,
			Employees: []portal.Assignment{
				{EmployeeID: 2, SupervisorID: 1, FirstName: "Ravi", LastName: "Kapoor", StartDate: "2024-01-08"},
				{EmployeeID: 3, SupervisorID: 1, FirstName: "Mei", LastName: "Tanaka", StartDate: "2024-02-12"},
				{EmployeeID: 4, SupervisorID: 1, FirstName: "Owen", LastName: "Brooks", StartDate: "2023-05-01", EndDate: strPtr("2023-12-22")},
			},
		},
		{
			ProjectID: 101, ProjectCode: "HRM-7", ProjectName: "Timesheet Migration", SupervisorID: 1,
			Employees: []portal.Assignment{
				{EmployeeID: 4, SupervisorID: 1, FirstName: "Owen", LastName: "Brooks", StartDate: "2024-03-04"},
				{EmployeeID: 5, SupervisorID: 2, FirstName: "Lucia", LastName: "Ferrer", StartDate: "2024-03-04"},
			},
		},
		{
			ProjectID: 102, ProjectCode: "OPS-2", ProjectName: "Onboarding Portal", SupervisorID: 2,
			Employees: []portal.Assignment{
				{EmployeeID: 5, SupervisorID: 2, FirstName: "Lucia", LastName: "Ferrer", StartDate: "2024-04-15"},
			},
		},
	}
	for _, p := range projects {
		_ = s.PutProject(p)
	}
}
