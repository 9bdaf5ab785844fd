package stats

import (
	"strings"

	"github.com/Lakshm1-R/placement-app/internal/placement/entity"
)

const unknownDepartment = "Unknown"

// companyAcc accumulates one normalized company. Spellings are kept in
// first-seen order so ties in the display-name vote go to the earliest.
type companyAcc struct {
	spellings []string
	counts    map[string]int
	placed    int
	packages  []float64
}

func (c *companyAcc) add(raw string, pkg float64) {
	if c.counts == nil {
		c.counts = make(map[string]int)
	}
	if _, ok := c.counts[raw]; !ok {
		c.spellings = append(c.spellings, raw)
	}
	c.counts[raw]++
	c.placed++
	if pkg > 0 {
		c.packages = append(c.packages, pkg)
	}
}

func (c *companyAcc) displayName() string {
	best := ""
	bestCount := 0
	for _, s := range c.spellings {
		if n := c.counts[s]; n > bestCount {
			best, bestCount = s, n
		}
	}
	return best
}

func (c *companyAcc) summary() entity.CompanySummary {
	return entity.CompanySummary{
		Name:           c.displayName(),
		StudentsPlaced: c.placed,
		AveragePackage: average(c.packages),
	}
}

// companyGroup is an insertion-ordered set of companyAcc keyed by
// NormalizeCompanyName.
type companyGroup struct {
	order []string
	byKey map[string]*companyAcc
}

func newCompanyGroup() *companyGroup {
	return &companyGroup{byKey: make(map[string]*companyAcc)}
}

func (g *companyGroup) add(raw string, pkg float64) {
	key := NormalizeCompanyName(raw)
	acc, ok := g.byKey[key]
	if !ok {
		acc = &companyAcc{}
		g.byKey[key] = acc
		g.order = append(g.order, key)
	}
	acc.add(raw, pkg)
}

func (g *companyGroup) each(fn func(*companyAcc)) {
	for _, key := range g.order {
		fn(g.byKey[key])
	}
}

func (g *companyGroup) packages() []float64 {
	var out []float64
	g.each(func(c *companyAcc) {
		out = append(out, c.packages...)
	})
	return out
}

type departmentAcc struct {
	name      string
	total     int
	placed    int
	companies *companyGroup
}

// Compute aggregates a batch. It is a pure function of records: the same
// input always yields an identical result, and nothing is carried between
// calls.
func Compute(records []entity.StudentRecord) entity.BatchStatistics {
	if len(records) == 0 {
		return entity.EmptyStatistics()
	}

	var (
		placed     int
		placedPkgs []float64
		deptOrder  []string
		depts      = make(map[string]*departmentAcc)
		companies  = newCompanyGroup()
	)

	for _, rec := range records {
		company := strings.TrimSpace(rec.Company)
		pkgRaw := strings.TrimSpace(rec.Package)
		pkg := ParsePackage(pkgRaw)

		if rec.Status == entity.StatusPlaced || company != "" {
			placed++
		}
		if company != "" && pkgRaw != "" && pkg > 0 {
			placedPkgs = append(placedPkgs, pkg)
		}

		deptName := strings.TrimSpace(rec.Department)
		if deptName == "" {
			deptName = unknownDepartment
		}
		dept, ok := depts[deptName]
		if !ok {
			dept = &departmentAcc{name: deptName, companies: newCompanyGroup()}
			depts[deptName] = dept
			deptOrder = append(deptOrder, deptName)
		}
		dept.total++

		if company == "" {
			continue
		}
		dept.placed++
		dept.companies.add(company, pkg)
		companies.add(company, pkg)
	}

	out := entity.BatchStatistics{
		TotalStudents:   len(records),
		PlacedStudents:  placed,
		PlacementRate:   rate(placed, len(records)),
		AveragePackage:  average(placedPkgs),
		HighestPackage:  highest(placedPkgs),
		LowestPackage:   lowest(placedPkgs),
		DepartmentStats: make([]entity.DepartmentSummary, 0, len(deptOrder)),
		CompanyStats:    make([]entity.CompanyStats, 0, len(companies.order)),
	}

	for _, name := range deptOrder {
		out.DepartmentStats = append(out.DepartmentStats, summarizeDepartment(depts[name]))
	}

	companies.each(func(c *companyAcc) {
		out.CompanyStats = append(out.CompanyStats, entity.CompanyStats{
			CompanySummary: c.summary(),
			HighestPackage: highest(c.packages),
			LowestPackage:  lowest(c.packages),
		})
	})
	out.TotalCompanies = len(out.CompanyStats)

	return out
}

func summarizeDepartment(d *departmentAcc) entity.DepartmentSummary {
	pkgs := d.companies.packages()

	summary := entity.DepartmentSummary{
		Department:     d.name,
		TotalStudents:  d.total,
		PlacedStudents: d.placed,
		PlacementRate:  rate(d.placed, d.total),
		HighestPackage: highest(pkgs),
		LowestPackage:  lowest(pkgs),
		TotalCompanies: len(d.companies.order),
		Companies:      make([]entity.CompanySummary, 0, len(d.companies.order)),
	}
	d.companies.each(func(c *companyAcc) {
		summary.Companies = append(summary.Companies, c.summary())
	})

	return summary
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return round2(sum / float64(len(values)))
}

func highest(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		m = max(m, v)
	}
	return m
}

func lowest(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		m = min(m, v)
	}
	return m
}
