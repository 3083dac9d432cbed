package taxonomy

import "sort"

// Template is the static taxonomy definition for one business type.
// Placeholder subcategories ({{Manager1}} etc.) survive only here; the
// compiler resolves or drops them before anything reaches a provider.
type Template struct {
	BusinessType string
	Categories   []Node
}

// sharedCategoryNames is the set of top-level categories common to every
// business type. During a multi-template merge these are merged by name;
// anything else is treated as industry-specific and unioned wholesale.
var sharedCategoryNames = map[string]bool{
	"BANKING":    true,
	"CLIENTS":    true,
	"MANAGER":    true,
	"SUPPLIERS":  true,
	"SCHEDULING": true,
	"MISC":       true,
}

// Category colors for the shared set. Flat-namespace providers apply
// these; hierarchical providers ignore them.
const (
	colorBanking    = "#16a766"
	colorClients    = "#4a86e8"
	colorManager    = "#ffad47"
	colorSuppliers  = "#a479e2"
	colorScheduling = "#f691b3"
	colorMisc       = "#999999"
)

// managerSlots and supplierSlots are the number of numbered placeholder
// positions declared under MANAGER and SUPPLIERS. Roster members beyond
// these slots become dynamic top-level nodes instead.
const (
	managerSlots  = 3
	supplierSlots = 5
)

func sharedCategories() []Node {
	return []Node{
		{
			Name:     "BANKING",
			Color:    colorBanking,
			Intent:   "money movement, statements, tax paperwork",
			Critical: true,
			Kind:     KindStatic,
			Children: []Node{
				{Name: "Receipts", Kind: KindStatic},
				{Name: "Invoices", Kind: KindStatic},
				{Name: "Statements", Kind: KindStatic},
				{Name: "Tax Documents", Kind: KindStatic},
			},
			Nested: map[string][]Node{
				"Receipts": {
					{Name: "Payment Sent", Kind: KindStatic},
					{Name: "Payment Received", Kind: KindStatic},
				},
				"Invoices": {
					{Name: "Paid", Kind: KindStatic},
					{Name: "Unpaid", Kind: KindStatic},
					{Name: "Overdue", Kind: KindStatic},
				},
			},
		},
		{
			Name:     "CLIENTS",
			Color:    colorClients,
			Intent:   "customer communication across the job lifecycle",
			Critical: true,
			Kind:     KindStatic,
			Children: []Node{
				{Name: "New Inquiries", Kind: KindStatic},
				{Name: "Estimates Sent", Kind: KindStatic},
				{Name: "Jobs In Progress", Kind: KindStatic},
				{Name: "Completed Jobs", Kind: KindStatic},
				{Name: "Follow Up", Kind: KindStatic},
			},
		},
		{
			Name:     "MANAGER",
			Color:    colorManager,
			Intent:   "mail requiring a named manager's attention",
			Critical: true,
			Kind:     KindStatic,
			Children: []Node{
				{Name: "{{Manager1}}", Kind: KindStatic},
				{Name: "{{Manager2}}", Kind: KindStatic},
				{Name: "{{Manager3}}", Kind: KindStatic},
				{Name: "Escalations", Kind: KindStatic},
			},
		},
		{
			Name:   "SUPPLIERS",
			Color:  colorSuppliers,
			Intent: "vendor orders, deliveries, and returns",
			Kind:   KindStatic,
			Children: []Node{
				{Name: "{{Supplier1}}", Kind: KindStatic},
				{Name: "{{Supplier2}}", Kind: KindStatic},
				{Name: "{{Supplier3}}", Kind: KindStatic},
				{Name: "{{Supplier4}}", Kind: KindStatic},
				{Name: "{{Supplier5}}", Kind: KindStatic},
				{Name: "Orders", Kind: KindStatic},
				{Name: "Returns", Kind: KindStatic},
			},
			Nested: map[string][]Node{
				"Orders": {
					{Name: "Placed", Kind: KindStatic},
					{Name: "Delivered", Kind: KindStatic},
				},
			},
		},
		{
			Name:   "SCHEDULING",
			Color:  colorScheduling,
			Intent: "appointment booking and calendar changes",
			Kind:   KindStatic,
			Children: []Node{
				{Name: "Appointments", Kind: KindStatic},
				{Name: "Reschedules", Kind: KindStatic},
				{Name: "Cancellations", Kind: KindStatic},
			},
		},
		{
			Name:   "MISC",
			Color:  colorMisc,
			Intent: "low-priority mail kept out of the inbox",
			Kind:   KindStatic,
			Children: []Node{
				{Name: "Newsletters", Kind: KindStatic},
				{Name: "Promotions", Kind: KindStatic},
			},
		},
	}
}

// templates maps a business-type identifier to its full template. Each
// template carries the shared set plus its industry-specific categories
// in declared root order.
var templates = map[string]Template{
	"plumbing": {
		BusinessType: "plumbing",
		Categories: append(sharedCategories(),
			Node{
				Name:   "PERMITS",
				Color:  "#cc3a21",
				Intent: "municipal permit applications and inspections",
				Kind:   KindStatic,
				Children: []Node{
					{Name: "Applications", Kind: KindStatic},
					{Name: "Approved", Kind: KindStatic},
					{Name: "Inspection Reports", Kind: KindStatic},
				},
			},
			Node{
				Name:     "EMERGENCY CALLS",
				Color:    "#fb4c2f",
				Intent:   "after-hours urgent dispatch requests",
				Critical: true,
				Kind:     KindStatic,
			},
		),
	},
	"hvac": {
		BusinessType: "hvac",
		Categories: append(sharedCategories(),
			Node{
				Name:   "MAINTENANCE CONTRACTS",
				Color:  "#43d692",
				Intent: "recurring service agreement paperwork",
				Kind:   KindStatic,
				Children: []Node{
					{Name: "Active Contracts", Kind: KindStatic},
					{Name: "Renewals", Kind: KindStatic},
					{Name: "Expired", Kind: KindStatic},
				},
			},
			Node{
				Name:   "EQUIPMENT",
				Color:  "#ffc8af",
				Intent: "unit registrations and warranty claims",
				Kind:   KindStatic,
				Children: []Node{
					{Name: "Warranty Claims", Kind: KindStatic},
					{Name: "Manuals", Kind: KindStatic},
				},
			},
		),
	},
	"electrical": {
		BusinessType: "electrical",
		Categories: append(sharedCategories(),
			Node{
				Name:   "PERMITS",
				Color:  "#cc3a21",
				Intent: "municipal permit applications and inspections",
				Kind:   KindStatic,
				Children: []Node{
					{Name: "Applications", Kind: KindStatic},
					{Name: "Inspection Reports", Kind: KindStatic},
				},
			},
			Node{
				Name:   "CODE COMPLIANCE",
				Color:  "#8e63ce",
				Intent: "electrical code bulletins and citations",
				Kind:   KindStatic,
				Children: []Node{
					{Name: "Bulletins", Kind: KindStatic},
					{Name: "Citations", Kind: KindStatic},
				},
			},
		),
	},
	"landscaping": {
		BusinessType: "landscaping",
		Categories: append(sharedCategories(),
			Node{
				Name:   "SEASONAL CONTRACTS",
				Color:  "#7cd197",
				Intent: "spring/fall cleanup and snow removal agreements",
				Kind:   KindStatic,
				Children: []Node{
					{Name: "Signed", Kind: KindStatic},
					{Name: "Pending", Kind: KindStatic},
				},
			},
		),
	},
}

// LookupTemplate returns the template for a business type.
func LookupTemplate(businessType string) (Template, bool) {
	t, ok := templates[businessType]
	return t, ok
}

// BusinessTypes returns the known business-type identifiers, sorted.
func BusinessTypes() []string {
	out := make([]string, 0, len(templates))
	for k := range templates {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
