package uitransport

// Role tags an element within its parent so it can be found again.
type Role string

const (
	RoleRootNetList Role = "rootNetList"

	RoleNetPanel Role = "netPanel"
	RoleNetTitle Role = "netTitle"
	RoleProcList Role = "procList"

	RoleProcPanel Role = "procPanel"
	RoleProcTitle Role = "procTitle"
	RoleChanPanel Role = "chanPanel"
	RoleChanList  Role = "chanList"
	RoleNetList   Role = "netList" // nested networks of a process

	RoleVarList    Role = "varList"
	RoleVarPanel   Role = "varPanel"
	RoleWidgetList Role = "widgetList"
)

// Template names a declarative element subtree.
type Template string

const (
	TemplateNetwork Template = "network"
	TemplateProc    Template = "proc"
	TemplateChan    Template = "chan"
	TemplateVar     Template = "var"
)
