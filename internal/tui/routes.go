package tui

import (
	"fmt"
	"strconv"
	"strings"
)

// Console routes. They mirror the paths of the web client so links and
// redirect targets read the same in both.
const (
	RouteSupervisor = "/dashboard/supervisor"
	RouteRemove     = "/dashboard/supervisor/remove"
	RouteCreate     = "/dashboard/supervisor/create"
	RouteApprovers  = "/dashboard/tsapprover"
)

// HomeRoute is the dashboard of employeeID.
func HomeRoute(employeeID int) string {
	return fmt.Sprintf("/dashboard/%d", employeeID)
}

// EmployeeRoute is the supervisor's detail view of one report.
func EmployeeRoute(employeeID int) string {
	return fmt.Sprintf("%s/%d", RouteSupervisor, employeeID)
}

type routeKind int

const (
	routeHome routeKind = iota
	routeSupervisor
	routeEmployee
	routeRemove
	routeCreate
	routeApprovers
)

type route struct {
	kind routeKind
	id   int
	path string
}

func parseRoute(path string) (route, error) {
	clean := "/" + strings.Trim(strings.TrimSpace(path), "/")
	parts := strings.Split(strings.TrimPrefix(clean, "/"), "/")
	if len(parts) < 2 || parts[0] != "dashboard" {
		return route{}, fmt.Errorf("tui: unknown route %q", path)
	}
	r := route{path: clean}
	switch {
	case len(parts) == 2 && parts[1] == "supervisor":
		r.kind = routeSupervisor
	case len(parts) == 2 && parts[1] == "tsapprover":
		r.kind = routeApprovers
	case len(parts) == 2:
		id, err := positiveID(parts[1])
		if err != nil {
			return route{}, fmt.Errorf("tui: unknown route %q", path)
		}
		r.kind, r.id = routeHome, id
	case len(parts) == 3 && parts[1] == "supervisor":
		switch parts[2] {
		case "remove":
			r.kind = routeRemove
		case "create":
			r.kind = routeCreate
		default:
			id, err := positiveID(parts[2])
			if err != nil {
				return route{}, fmt.Errorf("tui: unknown route %q", path)
			}
			r.kind, r.id = routeEmployee, id
		}
	default:
		return route{}, fmt.Errorf("tui: unknown route %q", path)
	}
	return r, nil
}

func positiveID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, fmt.Errorf("id must be positive")
	}
	return id, nil
}
