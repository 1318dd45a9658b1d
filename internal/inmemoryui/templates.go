package inmemoryui

import "github.com/specialistvlad/flowui/internal/uitransport"

// Node is one element of a template.
type Node struct {
	Role     uitransport.Role
	Children []Node
}

// DefaultTemplates is the element layout for the four builder templates.
var DefaultTemplates = map[uitransport.Template]Node{
	uitransport.TemplateNetwork: {
		Role: uitransport.RoleNetPanel,
		Children: []Node{
			{Role: uitransport.RoleNetTitle},
			{Role: uitransport.RoleProcList},
		},
	},
	uitransport.TemplateProc: {
		Role: uitransport.RoleProcPanel,
		Children: []Node{
			{Role: uitransport.RoleProcTitle},
			{Role: uitransport.RoleChanPanel, Children: []Node{{Role: uitransport.RoleChanList}}},
			{Role: uitransport.RoleNetList},
		},
	},
	uitransport.TemplateChan: {Role: uitransport.RoleVarList},
	uitransport.TemplateVar: {
		Role:     uitransport.RoleVarPanel,
		Children: []Node{{Role: uitransport.RoleWidgetList}},
	},
}
