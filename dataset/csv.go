package dataset

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/rs/zerolog"

	"github.com/spektr-org/sleeplens/schema"
)

// ============================================================================
// CSV LOADER — gota DataFrame → []Record
// ============================================================================
// The file is read into a DataFrame with typed numeric columns, headers are
// checked against the schema, then rows are materialized and normalized.
// ============================================================================

// missingTokens are the cell values read as missing.
var missingTokens = []string{"", "NA", "NaN", "<nil>"}

// LoadOption configures a loader.
type LoadOption func(*loadSettings)

type loadSettings struct {
	logger *zerolog.Logger
}

// WithLogger sets the logger used for load warnings.
func WithLogger(l *zerolog.Logger) LoadOption {
	return func(s *loadSettings) {
		s.logger = l
	}
}

func applyLoadOptions(opts []LoadOption) *loadSettings {
	nop := zerolog.Nop()
	s := &loadSettings{logger: &nop}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadFile reads and normalizes a CSV file.
func LoadFile(path string, opts ...LoadOption) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	return ParseCSV(f, opts...)
}

// ParseCSV reads and normalizes CSV data from r.
func ParseCSV(r io.Reader, opts ...LoadOption) (*Table, error) {
	df := dataframe.ReadCSV(r, gotaOptions()...)
	if df.Err != nil {
		return nil, fmt.Errorf("parse csv: %w", df.Err)
	}
	return fromDataFrame(df, applyLoadOptions(opts))
}

func gotaOptions() []dataframe.LoadOption {
	types := make(map[string]series.Type)
	for _, m := range schema.SleepHealth().Measures {
		if m.DerivedFrom == "" {
			types[m.Key] = series.Float
		}
	}
	return []dataframe.LoadOption{
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.WithTypes(types),
		dataframe.NaNValues(missingTokens),
	}
}

// ============================================================================
// MATERIALIZE
// ============================================================================

func fromDataFrame(df dataframe.DataFrame, s *loadSettings) (*Table, error) {
	headers := df.Names()
	if err := schema.SleepHealth().ValidateHeaders(headers); err != nil {
		return nil, err
	}
	if df.Nrow() == 0 {
		return nil, ErrEmptyDataset
	}

	// trimmed header → actual column name
	cols := make(map[string]string, len(headers))
	columns := make([]string, 0, len(headers))
	for _, h := range headers {
		name := strings.TrimSpace(h)
		cols[name] = h
		columns = append(columns, name)
	}

	floats := func(key string) []float64 {
		raw, ok := cols[key]
		if !ok {
			out := make([]float64, df.Nrow())
			for i := range out {
				out[i] = math.NaN()
			}
			return out
		}
		return df.Col(raw).Float()
	}
	strs := func(key string) []string {
		col := df.Col(cols[key])
		out := make([]string, df.Nrow())
		for i := range out {
			if e := col.Elem(i); !e.IsNA() {
				out[i] = strings.TrimSpace(e.String())
			}
		}
		return out
	}

	var (
		personID  = floats(schema.ColPersonID)
		age       = floats(schema.ColAge)
		duration  = floats(schema.ColSleepDuration)
		quality   = floats(schema.ColSleepQuality)
		activity  = floats(schema.ColPhysicalActivity)
		stress    = floats(schema.ColStressLevel)
		heartRate = floats(schema.ColHeartRate)
		steps     = floats(schema.ColDailySteps)
		gender    = strs(schema.ColGender)
		job       = strs(schema.ColOccupation)
		bmi       = strs(schema.ColBMICategory)
		bp        = strs(schema.ColBloodPressure)
		disorder  = strs(schema.ColSleepDisorder)
	)

	records := make([]Record, df.Nrow())
	for i := range records {
		r := NewRecord()
		r.PersonID = personID[i]
		r.Gender = gender[i]
		r.Age = age[i]
		r.Occupation = job[i]
		r.SleepDuration = duration[i]
		r.SleepQuality = quality[i]
		r.PhysicalActivity = activity[i]
		r.StressLevel = stress[i]
		r.BMICategory = bmi[i]
		r.BloodPressure = bp[i]
		r.HeartRate = heartRate[i]
		r.DailySteps = steps[i]
		r.SleepDisorder = disorder[i]
		records[i] = r
	}

	for _, raw := range Normalize(records) {
		s.logger.Warn().Str("value", raw).Msg("⚠️ unknown BMI category kept verbatim")
	}

	table := &Table{Records: records, Columns: columns}
	outOfRange := 0
	for _, r := range records {
		if r.AgeGroup == MissingGroup {
			outOfRange++
		}
	}
	s.logger.Info().
		Int("records", table.Len()).
		Int("columns", len(columns)).
		Int("without_age_group", outOfRange).
		Msg("📊 dataset loaded")

	return table, nil
}
