package table

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

const trafficCSV = "time_generated,source_ip__value,dest_ip__value,dest_port,app,rule_matched,action__value\n" +
	"1754925304305014,213.165.70.241,70.128.60.208,443,ssh,deny-external,deny\n" +
	"1754925304405014,10.0.0.1,10.0.0.2,53,dns,allow-internal,allow\n"

func TestParseValidTrafficLog(t *testing.T) {
	tbl, info, err := Parse("traffic.csv", []byte(trafficCSV), Limits{})
	if err != nil {
		t.Fatalf("Parse() err = %v", err)
	}

	wantColumns := []string{"time_generated", "source_ip__value", "dest_ip__value", "dest_port", "app", "rule_matched", "action__value"}
	if !reflect.DeepEqual(info.Columns, wantColumns) {
		t.Fatalf("Parse() columns = %v, want %v", info.Columns, wantColumns)
	}
	if info.Rows != 2 || tbl.Len() != 2 {
		t.Fatalf("Parse() rows = %d/%d, want 2", info.Rows, tbl.Len())
	}
	if info.Size != int64(len(trafficCSV)) {
		t.Fatalf("Parse() size = %d, want %d", info.Size, len(trafficCSV))
	}

	idx, ok := tbl.ColumnIndex("app")
	if !ok || tbl.Rows[1][idx] != "dns" {
		t.Fatalf("unexpected app value in row 1: %v", tbl.Rows[1])
	}
}

func TestParseRejections(t *testing.T) {
	cases := []struct {
		name     string
		filename string
		data     string
		want     error
	}{
		{name: "wrong extension", filename: "traffic.txt", data: trafficCSV, want: ErrInvalidExtension},
		{name: "upper case extension", filename: "TRAFFIC.CSV", data: trafficCSV, want: ErrInvalidExtension},
		{name: "extension checked before emptiness", filename: "empty.json", data: "", want: ErrInvalidExtension},
		{name: "empty", filename: "empty.csv", data: "", want: ErrEmptyInput},
		{name: "invalid utf-8", filename: "latin1.csv", data: "name\ncaf\xe9\n", want: ErrEncoding},
		{name: "unterminated quote", filename: "bad.csv", data: "a,b\n\"open,1\n", want: ErrParse},
		{name: "bare quote", filename: "bad.csv", data: "a,b\n1,x\"y\n", want: ErrParse},
		{name: "too many fields", filename: "bad.csv", data: "a,b\n1,2,3\n", want: ErrParse},
		{name: "header only", filename: "header_only.csv", data: "a,b\n", want: ErrMissingHeaderOrEmpty},
		{name: "blank lines only", filename: "blank.csv", data: "\n\n", want: ErrMissingHeaderOrEmpty},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Parse(tc.filename, []byte(tc.data), Limits{})
			if !errors.Is(err, tc.want) {
				t.Fatalf("Parse() err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestParseSizeCapBoundary(t *testing.T) {
	limits := Limits{MaxSize: 64}
	atCap := "a\n" + strings.Repeat("1\n", 31)
	if len(atCap) != 64 {
		t.Fatalf("fixture length = %d, want 64", len(atCap))
	}

	if _, info, err := Parse("cap.csv", []byte(atCap), limits); err != nil {
		t.Fatalf("Parse() at cap err = %v", err)
	} else if info.Rows != 31 {
		t.Fatalf("Parse() at cap rows = %d, want 31", info.Rows)
	}

	overCap := atCap + "x"
	if _, _, err := Parse("cap.csv", []byte(overCap), limits); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("Parse() over cap err = %v, want %v", err, ErrTooLarge)
	}
}

func TestReadHeaderNormalization(t *testing.T) {
	tbl, err := Read([]byte("\xef\xbb\xbfa,,a,a\n1,2,3,4\n"))
	if err != nil {
		t.Fatalf("Read() err = %v", err)
	}

	want := []string{"a", "Unnamed: 1", "a.1", "a.2"}
	if !reflect.DeepEqual(tbl.Columns, want) {
		t.Fatalf("Read() columns = %v, want %v", tbl.Columns, want)
	}
}

func TestReadPadsShortRows(t *testing.T) {
	tbl, err := Read([]byte("a,b,c\n1\n\n4,5,6\n"))
	if err != nil {
		t.Fatalf("Read() err = %v", err)
	}

	want := [][]string{{"1", "", ""}, {"4", "5", "6"}}
	if !reflect.DeepEqual(tbl.Rows, want) {
		t.Fatalf("Read() rows = %v, want %v", tbl.Rows, want)
	}
}

func TestIsMissing(t *testing.T) {
	for _, v := range []string{"", "NA", "NaN", "null", "None", "N/A"} {
		if !IsMissing(v) {
			t.Fatalf("IsMissing(%q) = false, want true", v)
		}
	}
	for _, v := range []string{"allow", "0", " ", "unknown"} {
		if IsMissing(v) {
			t.Fatalf("IsMissing(%q) = true, want false", v)
		}
	}
}
