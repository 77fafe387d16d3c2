// Package places holds the static domain schema for the county health
// survey dataset: raw column contract, measure lists, the state-to-region
// lookup, and the measure reference definitions.
package places

import "github.com/jasonsum/2022-msia423-Summer-Jason-project/internal/table"

// Raw long-format column names as they appear in the source extract.
const (
	ColState       = "StateDesc"
	ColCounty      = "CountyName"
	ColCountyFIPS  = "CountyFIPS"
	ColLocationID  = "LocationID"
	ColPopulation  = "TotalPopulation"
	ColGeolocation = "Geolocation"
	ColMeasureID   = "MeasureId"
	ColDataValue   = "Data_Value"
	ColCategory    = "Category"
	ColShortText   = "Short_Question_Text"
	ColMeasure     = "Measure"
)

// ResponseColumn is the measure modeled as the outcome.
const ResponseColumn = "GHLTH"

// LogitResponseColumn holds the log-odds transform of the response.
const LogitResponseColumn = "logit_GHLTH"

// ScaledPopulationColumn holds the min-max scaled population feature.
const ScaledPopulationColumn = "scaled_TotalPopulation"

// ReferenceRegion is omitted from the indicator set to avoid the
// dummy-variable trap.
const ReferenceRegion = "West"

// RawColumns lists the required import columns for the long-format extract.
var RawColumns = []string{
	ColState, ColCounty, ColCountyFIPS, ColLocationID, ColPopulation,
	ColGeolocation, ColMeasureID, ColDataValue, ColCategory, ColShortText,
	ColMeasure,
}

// RawSchema is the column/type contract validated before pivoting.
var RawSchema = map[string]table.Kind{
	ColState:       table.String,
	ColCounty:      table.String,
	ColCountyFIPS:  table.Float,
	ColLocationID:  table.Float,
	ColPopulation:  table.Float,
	ColGeolocation: table.String,
	ColMeasureID:   table.String,
	ColDataValue:   table.Float,
	ColCategory:    table.String,
	ColShortText:   table.String,
	ColMeasure:     table.String,
}

// PivotIndex is the entity identifier tuple: one output row per unique
// combination of these columns.
var PivotIndex = []string{
	ColState, ColCounty, ColCountyFIPS, ColLocationID, ColPopulation,
	ColGeolocation,
}

// ProportionMeasures are whole-number percentage measures rescaled to
// [0,1] proportions during featurization.
var ProportionMeasures = []string{
	"ACCESS2", "ARTHRITIS", "BINGE", "BPHIGH", "BPMED",
	"CANCER", "CASTHMA", "CHD", "CHECKUP", "CHOLSCREEN",
	"COPD", "CSMOKING", "DEPRESSION", "DIABETES",
	"GHLTH", "HIGHCHOL", "KIDNEY", "LPA", "MHLTH",
	"OBESITY", "PHLTH", "STROKE",
}

// InvalidMeasures are measures dropped after pivoting: some are not
// consistently collected, others are collinear with retained predictors.
var InvalidMeasures = []string{
	"TEETHLOST", "SLEEP", "MAMMOUSE", "DENTAL", "COREW",
	"COREM", "COLON_SCREEN", "CERVICAL",
}

// ModelFeatures are the feature-table columns the served model is fit on.
// LPA, MHLTH, and PHLTH are featurized but excluded: they track the
// response family too closely. Region indicators omit the reference region.
var ModelFeatures = []string{
	"ACCESS2", "ARTHRITIS", "BINGE", "BPHIGH", "BPMED",
	"CANCER", "CASTHMA", "CHD", "CHECKUP", "CHOLSCREEN",
	"COPD", "CSMOKING", "DEPRESSION", "DIABETES",
	"HIGHCHOL", "KIDNEY", "OBESITY", "STROKE",
	ScaledPopulationColumn,
	"Midwest", "Northeast", "South", "Southwest",
}

// StateRegions maps state names to census-style regions for the one-hot
// encoding step. Supplied as configuration; the pipeline YAML may override.
var StateRegions = map[string]string{
	"Washington": "West", "Oregon": "West", "California": "West",
	"Nevada": "West", "Idaho": "West", "Montana": "West",
	"Wyoming": "West", "Utah": "West", "Colorado": "West",
	"Alaska": "West", "Hawaii": "West",
	"Maine": "Northeast", "Vermont": "Northeast", "New York": "Northeast",
	"New Hampshire": "Northeast", "Massachusetts": "Northeast",
	"Rhode Island": "Northeast", "Connecticut": "Northeast",
	"New Jersey": "Northeast", "Pennsylvania": "Northeast",
	"North Dakota": "Midwest", "South Dakota": "Midwest",
	"Nebraska": "Midwest", "Kansas": "Midwest", "Minnesota": "Midwest",
	"Iowa": "Midwest", "Missouri": "Midwest", "Wisconsin": "Midwest",
	"Illinois": "Midwest", "Michigan": "Midwest", "Indiana": "Midwest",
	"Ohio": "Midwest",
	"West Virginia": "South", "District of Columbia": "South",
	"Maryland": "South", "Virginia": "South", "Kentucky": "South",
	"Tennessee": "South", "North Carolina": "South",
	"Mississippi": "South", "Arkansas": "South", "Louisiana": "South",
	"Alabama": "South", "Georgia": "South", "South Carolina": "South",
	"Florida": "South", "Delaware": "South",
	"Arizona": "Southwest", "New Mexico": "Southwest",
	"Oklahoma": "Southwest", "Texas": "Southwest",
}

// MeasureDefinition is a read-only reference row describing one survey
// measure.
type MeasureDefinition struct {
	Category  string
	MeasureID string
	ShortText string
}

// Measure reference categories.
const (
	CategoryOutcomes   = "health outcomes"
	CategoryBehaviors  = "health risk behaviors"
	CategoryStatus     = "health status"
	CategoryPrevention = "prevention"
)

// MeasureDefinitions seeds the measures reference table.
var MeasureDefinitions = []MeasureDefinition{
	{CategoryOutcomes, "teethlost", "all teeth lost"},
	{CategoryOutcomes, "arthritis", "arthritis"},
	{CategoryOutcomes, "cancer", "cancer (except skin)"},
	{CategoryOutcomes, "kidney", "chronic kidney disease"},
	{CategoryOutcomes, "copd", "copd"},
	{CategoryOutcomes, "chd", "coronary heart disease"},
	{CategoryOutcomes, "casthma", "current asthma"},
	{CategoryOutcomes, "depression", "depression"},
	{CategoryOutcomes, "diabetes", "diabetes"},
	{CategoryOutcomes, "bphigh", "high blood pressure"},
	{CategoryOutcomes, "highchol", "high cholesterol"},
	{CategoryOutcomes, "obesity", "obesity"},
	{CategoryOutcomes, "stroke", "stroke"},
	{CategoryBehaviors, "binge", "binge drinking"},
	{CategoryBehaviors, "csmoking", "current smoking"},
	{CategoryBehaviors, "lpa", "physical inactivity"},
	{CategoryBehaviors, "sleep", "sleep <7 hours"},
	{CategoryStatus, "ghlth", "general health"},
	{CategoryStatus, "mhlth", "mental health"},
	{CategoryStatus, "phlth", "physical health"},
	{CategoryPrevention, "cervical", "cervical cancer screening"},
	{CategoryPrevention, "cholscreen", "cholesterol screening"},
	{CategoryPrevention, "access2", "health insurance"},
	{CategoryPrevention, "colon_screen", "colorectal cancer screening"},
	{CategoryPrevention, "mammouse", "mammography"},
	{CategoryPrevention, "corem", "core preventive services for older men"},
	{CategoryPrevention, "corew", "core preventive services for older women"},
	{CategoryPrevention, "bpmed", "taking bp medication"},
	{CategoryPrevention, "dental", "dental visit"},
	{CategoryPrevention, "checkup", "annual checkup"},
}
