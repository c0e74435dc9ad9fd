package services

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"pawtrack-backend/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// threshold1099 is the IRS reporting floor for contractor earnings in a
// calendar year. Exactly 600.00 requires a 1099.
var threshold1099 = decimal.NewFromInt(600)

// MonthlyEarnings is one month's paid-out total for a staff member.
type MonthlyEarnings struct {
	Month int             `json:"month"`
	Total decimal.Decimal `json:"total"`
	Walks int             `json:"walks"`
}

// Staff1099Summary rolls up a staff member's paid paysheets for a year.
type Staff1099Summary struct {
	StaffID      uuid.UUID         `json:"staffId"`
	StaffName    string            `json:"staffName"`
	Year         int               `json:"year"`
	Monthly      []MonthlyEarnings `json:"monthly"`
	YearTotal    decimal.Decimal   `json:"yearTotal"`
	TotalWalks   int               `json:"totalWalks"`
	TotalMinutes int               `json:"totalMinutes"`
	Requires1099 bool              `json:"requires1099"`
}

// Staff1099Detail adds the underlying paysheets to the summary.
type Staff1099Detail struct {
	Staff1099Summary
	Paysheets []models.Paysheet `json:"paysheets"`
}

// TaxReportService is the read-side 1099 aggregator over paid paysheets.
// A paysheet belongs to the month and year of its period end.
type TaxReportService struct {
	db *gorm.DB
}

func NewTaxReportService(db *gorm.DB) *TaxReportService {
	return &TaxReportService{db: db}
}

func (s *TaxReportService) paidPaysheets(companyID uuid.UUID, year int, staffID *uuid.UUID) ([]models.Paysheet, error) {
	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := yearStart.AddDate(1, 0, 0)
	query := s.db.Preload("Staff").
		Where("company_id = ? AND status = ?", companyID, models.PaysheetPaid).
		Where("period_end >= ? AND period_end < ?", yearStart, yearEnd)
	if staffID != nil {
		query = query.Where("staff_id = ?", *staffID)
	}
	var sheets []models.Paysheet
	err := query.Order("period_end ASC").Find(&sheets).Error
	return sheets, err
}

func summarize(staffID uuid.UUID, staffName string, year int, sheets []models.Paysheet) Staff1099Summary {
	summary := Staff1099Summary{
		StaffID:   staffID,
		StaffName: staffName,
		Year:      year,
		YearTotal: decimal.Zero,
	}
	byMonth := map[int]*MonthlyEarnings{}
	for _, sheet := range sheets {
		month := int(sheet.PeriodEnd.Month())
		entry, ok := byMonth[month]
		if !ok {
			entry = &MonthlyEarnings{Month: month, Total: decimal.Zero}
			byMonth[month] = entry
		}
		entry.Total = entry.Total.Add(sheet.TotalEarnings)
		entry.Walks += sheet.TotalWalks
		summary.YearTotal = summary.YearTotal.Add(sheet.TotalEarnings)
		summary.TotalWalks += sheet.TotalWalks
		summary.TotalMinutes += sheet.TotalMinutes
	}
	for month := 1; month <= 12; month++ {
		if entry, ok := byMonth[month]; ok {
			summary.Monthly = append(summary.Monthly, *entry)
		}
	}
	summary.Requires1099 = summary.YearTotal.GreaterThanOrEqual(threshold1099)
	return summary
}

// Report aggregates paid paysheets per staff member for the year.
func (s *TaxReportService) Report(companyID uuid.UUID, year int) ([]Staff1099Summary, error) {
	sheets, err := s.paidPaysheets(companyID, year, nil)
	if err != nil {
		return nil, err
	}

	byStaff := map[uuid.UUID][]models.Paysheet{}
	names := map[uuid.UUID]string{}
	for _, sheet := range sheets {
		byStaff[sheet.StaffID] = append(byStaff[sheet.StaffID], sheet)
		names[sheet.StaffID] = sheet.Staff.Name
	}

	summaries := make([]Staff1099Summary, 0, len(byStaff))
	for staffID, staffSheets := range byStaff {
		summaries = append(summaries, summarize(staffID, names[staffID], year, staffSheets))
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].StaffName < summaries[j].StaffName
	})
	return summaries, nil
}

// StaffDetail is Report for a single staff member, with the paysheets
// behind the numbers.
func (s *TaxReportService) StaffDetail(companyID, staffID uuid.UUID, year int) (*Staff1099Detail, error) {
	var staff models.Staff
	if err := s.db.Where("company_id = ? AND id = ?", companyID, staffID).
		First(&staff).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("staff %s: %w", staffID, ErrNotFound)
		}
		return nil, err
	}

	sheets, err := s.paidPaysheets(companyID, year, &staffID)
	if err != nil {
		return nil, err
	}
	return &Staff1099Detail{
		Staff1099Summary: summarize(staffID, staff.Name, year, sheets),
		Paysheets:        sheets,
	}, nil
}
