package forensic

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// FieldState distinguishes a field that was confirmed absent from one that
// existed but could not be read. Downstream scorers treat the two differently.
type FieldState int

const (
	FieldAbsent FieldState = iota
	FieldUnreadable
	FieldPresent
)

func (s FieldState) String() string {
	switch s {
	case FieldPresent:
		return "present"
	case FieldUnreadable:
		return "unreadable"
	default:
		return "absent"
	}
}

// MarshalJSON renders the state as its lowercase name.
func (s FieldState) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON parses the lowercase name written by MarshalJSON, so stored
// reports decode back into the result struct.
func (s *FieldState) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "present":
		*s = FieldPresent
	case "unreadable":
		*s = FieldUnreadable
	case "absent":
		*s = FieldAbsent
	default:
		return fmt.Errorf("unknown field state %q", name)
	}
	return nil
}

// StringField is a descriptive metadata value plus its decode state. A missing
// value is never defaulted to a false one.
type StringField struct {
	Value string     `json:"value,omitempty"`
	State FieldState `json:"state"`
}

// Present reports whether the field decoded to a usable value.
func (f StringField) Present() bool {
	return f.State == FieldPresent && f.Value != ""
}

// TimeField is a capture timestamp plus its decode state.
type TimeField struct {
	Value time.Time  `json:"value,omitempty"`
	State FieldState `json:"state"`
}

// Present reports whether the timestamp decoded successfully.
func (f TimeField) Present() bool {
	return f.State == FieldPresent && !f.Value.IsZero()
}

// MetadataRecord holds the embedded descriptive fields of an asset. Every
// field is independently nullable.
type MetadataRecord struct {
	DeviceMake  StringField `json:"device_make"`
	DeviceModel StringField `json:"device_model"`
	Software    StringField `json:"software"`
	CapturedAt  TimeField   `json:"captured_at"`

	GPSPresent bool     `json:"gps_present"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`

	// BlockState describes the metadata block as a whole: absent means the
	// file carried no block at all, unreadable means a block existed but
	// could not be parsed.
	BlockState FieldState `json:"block_state"`
}

// DeviceIdentityPresent reports whether either make or model decoded.
func (r *MetadataRecord) DeviceIdentityPresent() bool {
	return r.DeviceMake.Present() || r.DeviceModel.Present()
}

// AllDescriptiveFieldsMissing reports whether no descriptive field decoded.
func (r *MetadataRecord) AllDescriptiveFieldsMissing() bool {
	return !r.DeviceIdentityPresent() &&
		!r.Software.Present() &&
		!r.CapturedAt.Present() &&
		!r.GPSPresent
}

const exifTimeLayout = "2006:01:02 15:04:05"

var exifMarker = []byte("Exif\x00\x00")

// ExtractMetadata decodes the embedded metadata of the raw file bytes. A parse
// failure is a recovered condition: the returned record marks every field with
// the appropriate non-present state and analysis proceeds.
func ExtractMetadata(data []byte) *MetadataRecord {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		state := FieldAbsent
		if bytes.Contains(data, exifMarker) {
			// A block exists but could not be parsed.
			state = FieldUnreadable
			slog.Warn("metadata block unreadable", "error", err)
		}
		return &MetadataRecord{
			DeviceMake:  StringField{State: state},
			DeviceModel: StringField{State: state},
			Software:    StringField{State: state},
			CapturedAt:  TimeField{State: state},
			BlockState:  state,
		}
	}

	record := &MetadataRecord{
		DeviceMake:  stringField(x, exif.Make),
		DeviceModel: stringField(x, exif.Model),
		Software:    stringField(x, exif.Software),
		CapturedAt:  timeField(x),
		BlockState:  FieldPresent,
	}

	lat, lon, ok := decodeGPS(x)
	if ok {
		record.GPSPresent = true
		record.Latitude = &lat
		record.Longitude = &lon
	}

	slog.Debug("metadata extracted",
		"device_make", record.DeviceMake.Value,
		"software", record.Software.Value,
		"gps_present", record.GPSPresent)
	return record
}

func stringField(x *exif.Exif, name exif.FieldName) StringField {
	tag, err := x.Get(name)
	if err != nil {
		return StringField{State: FieldAbsent}
	}
	val, err := tag.StringVal()
	if err != nil {
		return StringField{State: FieldUnreadable}
	}
	val = strings.TrimSpace(strings.Trim(val, "\x00"))
	if val == "" {
		return StringField{State: FieldAbsent}
	}
	return StringField{Value: val, State: FieldPresent}
}

func timeField(x *exif.Exif) TimeField {
	for _, name := range []exif.FieldName{exif.DateTimeOriginal, exif.DateTime} {
		tag, err := x.Get(name)
		if err != nil {
			continue
		}
		raw, err := tag.StringVal()
		if err != nil {
			return TimeField{State: FieldUnreadable}
		}
		ts, err := time.Parse(exifTimeLayout, strings.TrimSpace(raw))
		if err != nil {
			return TimeField{State: FieldUnreadable}
		}
		return TimeField{Value: ts, State: FieldPresent}
	}
	return TimeField{State: FieldAbsent}
}

// decodeGPS converts the rational degree/minute/second triplets plus
// hemisphere references into signed decimal degrees. GPS counts as present
// only if both latitude and longitude decode.
func decodeGPS(x *exif.Exif) (lat, lon float64, ok bool) {
	lat, err := gpsCoordinate(x, exif.GPSLatitude, exif.GPSLatitudeRef)
	if err != nil {
		return 0, 0, false
	}
	lon, err = gpsCoordinate(x, exif.GPSLongitude, exif.GPSLongitudeRef)
	if err != nil {
		return 0, 0, false
	}
	return lat, lon, true
}

func gpsCoordinate(x *exif.Exif, value, ref exif.FieldName) (float64, error) {
	tag, err := x.Get(value)
	if err != nil {
		return 0, err
	}
	var dms [3]float64
	for i := 0; i < 3; i++ {
		num, den, err := tag.Rat2(i)
		if err != nil {
			return 0, err
		}
		if den == 0 {
			return 0, fmt.Errorf("zero denominator in %s component %d", value, i)
		}
		dms[i] = float64(num) / float64(den)
	}
	refTag, err := x.Get(ref)
	if err != nil {
		return 0, err
	}
	hemisphere, err := refTag.StringVal()
	if err != nil {
		return 0, err
	}
	return dmsToDecimal(dms[0], dms[1], dms[2], hemisphere)
}

// dmsToDecimal converts degrees/minutes/seconds plus a hemisphere reference to
// signed decimal degrees. South and west negate.
func dmsToDecimal(deg, min, sec float64, hemisphere string) (float64, error) {
	decimal := deg + min/60 + sec/3600
	switch strings.ToUpper(strings.TrimSpace(hemisphere)) {
	case "N", "E":
		return decimal, nil
	case "S", "W":
		return -decimal, nil
	default:
		return 0, fmt.Errorf("unknown hemisphere reference %q", hemisphere)
	}
}
