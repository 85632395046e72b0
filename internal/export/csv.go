// Package export renders the factory catalog as CSV or XLSX tables.
package export

import (
	"strconv"
	"strings"
	"time"

	"supplierhub/models"
)

// Views
const (
	TypeAll     = "all"
	TypeContact = "contact"
	TypeStats   = "stats"
)

// ValidType reports whether t names an export view.
func ValidType(t string) bool {
	return t == TypeAll || t == TypeContact || t == TypeStats
}

var baseHeader = []string{
	"ID", "Name (CN)", "Name (EN)", "City", "Province", "Segment", "Address",
	"MOQ", "Lead Time (days)", "Monthly Capacity",
	"BSCI", "OEKO-TEX", "GOTS", "WRAP", "Sedex",
	"Interaction Level", "Verified At", "Created At",
}

var contactColumns = []string{
	"Contact Person", "WeChat", "Phone", "Email", "Website", "Latitude", "Longitude",
}

var contactHeader = []string{
	"ID", "Name (CN)", "Name (EN)", "Contact Person", "WeChat", "Phone", "Email", "Website", "City", "Province",
}

// AllTable builds the full view. Contact columns are appended only when
// includeContactInfo is set.
func AllTable(factories []models.Factory, includeContactInfo bool) [][]string {
	header := append([]string{}, baseHeader...)
	if includeContactInfo {
		header = append(header, contactColumns...)
	}

	rows := make([][]string, 0, len(factories)+1)
	rows = append(rows, header)
	for i := range factories {
		f := &factories[i]
		row := []string{
			f.ID, f.NameCN, f.NameEN, f.City, f.Province, f.Segment, f.Address,
			optInt(f.MOQ), optInt(f.LeadTimeDays), optInt(f.MonthlyCapacity),
			yesNo(f.CertBSCI), yesNo(f.CertOekoTex), yesNo(f.CertGOTS), yesNo(f.CertWRAP), yesNo(f.CertSedex),
			strconv.Itoa(f.InteractionLevel), optTime(f.VerifiedAt), f.CreatedAt.Format(time.RFC3339),
		}
		if includeContactInfo {
			row = append(row,
				f.ContactPerson, f.WeChatID, f.Phone, optString(f.Email), optString(f.Website),
				optFloat(f.Latitude), optFloat(f.Longitude),
			)
		}
		rows = append(rows, row)
	}
	return rows
}

// ContactTable builds the contacts-only view.
func ContactTable(factories []models.Factory) [][]string {
	rows := make([][]string, 0, len(factories)+1)
	rows = append(rows, append([]string{}, contactHeader...))
	for i := range factories {
		f := &factories[i]
		rows = append(rows, []string{
			f.ID, f.NameCN, f.NameEN, f.ContactPerson, f.WeChatID, f.Phone,
			optString(f.Email), optString(f.Website), f.City, f.Province,
		})
	}
	return rows
}

func AllToCSV(factories []models.Factory, includeContactInfo bool) string {
	return FormatCSV(AllTable(factories, includeContactInfo))
}

func ContactInfoToCSV(factories []models.Factory) string {
	return FormatCSV(ContactTable(factories))
}

func StatsToCSV(s Stats) string {
	return FormatCSV(StatsTable(s))
}

// FormatCSV quotes every cell and doubles embedded quotes. Rows end with \n.
func FormatCSV(rows [][]string) string {
	var b strings.Builder
	for _, row := range rows {
		for i, cell := range row {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(cell, `"`, `""`))
			b.WriteByte('"')
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func optInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func optFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func optString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func optTime(v *time.Time) string {
	if v == nil {
		return ""
	}
	return v.Format(time.RFC3339)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
