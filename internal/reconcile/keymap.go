package reconcile

import (
	"fmt"
	"strings"
)

// segmentAbbrevs maps normalized path segments to their short form.
// Covering the template vocabulary here keeps the keys the downstream
// automation references readable (BANK_RCPT_SENT instead of a
// mechanical truncation). Unknown segments fall back to abbreviate.
var segmentAbbrevs = map[string]string{
	"BANKING":              "BANK",
	"RECEIPTS":             "RCPT",
	"PAYMENTSENT":          "SENT",
	"PAYMENTRECEIVED":      "RCVD",
	"INVOICES":             "INV",
	"PAID":                 "PAID",
	"UNPAID":               "UNPD",
	"OVERDUE":              "OVRD",
	"STATEMENTS":           "STMT",
	"TAXDOCUMENTS":         "TAX",
	"CLIENTS":              "CLNT",
	"NEWINQUIRIES":         "NEWINQ",
	"ESTIMATESSENT":        "EST",
	"JOBSINPROGRESS":       "JOBS",
	"COMPLETEDJOBS":        "DONE",
	"FOLLOWUP":             "FLWUP",
	"MANAGER":              "MGR",
	"ESCALATIONS":          "ESC",
	"SUPPLIERS":            "SUPL",
	"ORDERS":               "ORD",
	"PLACED":               "PLCD",
	"DELIVERED":            "DLVD",
	"RETURNS":              "RTN",
	"SCHEDULING":           "SCHED",
	"APPOINTMENTS":         "APPT",
	"RESCHEDULES":          "RESCH",
	"CANCELLATIONS":        "CNCL",
	"MISC":                 "MISC",
	"NEWSLETTERS":          "NEWS",
	"PROMOTIONS":           "PROMO",
	"PERMITS":              "PRMT",
	"APPLICATIONS":         "APPL",
	"APPROVED":             "APRV",
	"INSPECTIONREPORTS":    "INSP",
	"EMERGENCYCALLS":       "EMRG",
	"MAINTENANCECONTRACTS": "MAINT",
	"ACTIVECONTRACTS":      "ACTV",
	"RENEWALS":             "RENW",
	"EXPIRED":              "EXPD",
	"EQUIPMENT":            "EQUIP",
	"WARRANTYCLAIMS":       "WRNTY",
	"MANUALS":              "MANL",
	"CODECOMPLIANCE":       "CODE",
	"BULLETINS":            "BLTN",
	"CITATIONS":            "CITE",
	"SEASONALCONTRACTS":    "SEASN",
	"SIGNED":               "SGND",
	"PENDING":              "PNDG",
}

// FriendlyKey derives the short deterministic key for a hierarchical
// path: each segment abbreviates independently, joined by underscores.
func FriendlyKey(path string) string {
	segments := strings.Split(path, "/")
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if seg == "" {
			continue
		}
		parts = append(parts, abbreviate(seg))
	}
	return strings.Join(parts, "_")
}

// abbreviate shortens one path segment: dictionary first, then
// vowel-stripped truncation. Always uppercase alphanumeric.
func abbreviate(segment string) string {
	norm := normalizeSegment(segment)
	if short, ok := segmentAbbrevs[norm]; ok {
		return short
	}
	if len(norm) <= 6 {
		return norm
	}

	// Keep the first character, drop vowels after it, cap at 6.
	var b strings.Builder
	b.WriteByte(norm[0])
	for i := 1; i < len(norm) && b.Len() < 6; i++ {
		switch norm[i] {
		case 'A', 'E', 'I', 'O', 'U':
		default:
			b.WriteByte(norm[i])
		}
	}
	return b.String()
}

func normalizeSegment(segment string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(segment) {
		if r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// KeyedEntry pairs one resolved entry with its assigned friendly key.
type KeyedEntry struct {
	Key   string
	Entry Entry
}

// AssignKeys derives a friendly key for every entry. Key collisions
// (distinct paths abbreviating identically) get a numeric suffix in
// entry order, so the assignment stays deterministic for a given
// result.
func AssignKeys(entries []Entry) []KeyedEntry {
	taken := make(map[string]bool, len(entries))
	out := make([]KeyedEntry, 0, len(entries))
	for _, e := range entries {
		key := FriendlyKey(e.Path)
		if key == "" {
			continue
		}
		if taken[key] {
			for n := 2; ; n++ {
				candidate := fmt.Sprintf("%s_%d", key, n)
				if !taken[candidate] {
					key = candidate
					break
				}
			}
		}
		taken[key] = true
		out = append(out, KeyedEntry{Key: key, Entry: e})
	}
	return out
}

// BuildIDMap converts a run's resolved entries into the name→ID
// dictionary the workflow engine consumes.
func BuildIDMap(entries []Entry) map[string]string {
	keyed := AssignKeys(entries)
	out := make(map[string]string, len(keyed))
	for _, k := range keyed {
		out[k.Key] = k.Entry.RemoteID
	}
	return out
}
