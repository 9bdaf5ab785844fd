package entity

type CompanySummary struct {
	Name           string  `json:"name"`
	StudentsPlaced int     `json:"studentsPlaced"`
	AveragePackage float64 `json:"averagePackage"`
}

type CompanyStats struct {
	CompanySummary
	HighestPackage float64 `json:"highestPackage"`
	LowestPackage  float64 `json:"lowestPackage"`
}

type DepartmentSummary struct {
	Department     string           `json:"department"`
	TotalStudents  int              `json:"totalStudents"`
	PlacedStudents int              `json:"placedStudents"`
	PlacementRate  int              `json:"placementRate"`
	HighestPackage float64          `json:"highestPackage"`
	LowestPackage  float64          `json:"lowestPackage"`
	TotalCompanies int              `json:"totalCompanies"`
	Companies      []CompanySummary `json:"companies"`
}

type BatchStatistics struct {
	TotalStudents   int                 `json:"totalStudents"`
	PlacedStudents  int                 `json:"placedStudents"`
	PlacementRate   int                 `json:"placementRate"`
	AveragePackage  float64             `json:"averagePackage"`
	HighestPackage  float64             `json:"highestPackage"`
	LowestPackage   float64             `json:"lowestPackage"`
	TotalCompanies  int                 `json:"totalCompanies"`
	DepartmentStats []DepartmentSummary `json:"departmentStats"`
	CompanyStats    []CompanyStats      `json:"companyStats"`
}

// EmptyStatistics is what a freshly added batch (or an empty upload) reports.
func EmptyStatistics() BatchStatistics {
	return BatchStatistics{
		DepartmentStats: []DepartmentSummary{},
		CompanyStats:    []CompanyStats{},
	}
}
