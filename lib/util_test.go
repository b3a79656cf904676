package lib

import "encoding/json"
import "reflect"
import "testing"

func TestParsecsv(t *testing.T) {
	if outs := Parsecsv(""); outs != nil {
		t.Errorf("expected nil, got %v", outs)
	}
	ref := []string{"a", "b", "c"}
	if outs := Parsecsv("a, b ,c,"); reflect.DeepEqual(ref, outs) == false {
		t.Errorf("expected %v, got %v", ref, outs)
	}
}

func TestFixbuffer(t *testing.T) {
	buffer := Fixbuffer(nil, 10)
	if ln := int64(len(buffer)); ln != 10 {
		t.Errorf("expected %v, got %v", 10, ln)
	}
	buffer = Fixbuffer(buffer, 4)
	if ln := int64(len(buffer)); ln != 4 {
		t.Errorf("expected %v, got %v", 4, ln)
	} else if cp := int64(cap(buffer)); cp != 10 {
		t.Errorf("expected %v, got %v", 10, cp)
	}
	buffer = Fixbuffer(buffer, 1024)
	if ln := int64(len(buffer)); ln != 1024 {
		t.Errorf("expected %v, got %v", 1024, ln)
	}
}

func TestPrettystats(t *testing.T) {
	stats := map[string]interface{}{"alloc": 10, "heap": 20}
	for _, pretty := range []bool{false, true} {
		var out map[string]interface{}
		s := Prettystats(stats, pretty)
		if err := json.Unmarshal([]byte(s), &out); err != nil {
			t.Fatal(err)
		}
		if x := out["alloc"].(float64); x != 10 {
			t.Errorf("expected %v, got %v", 10, x)
		} else if y := out["heap"].(float64); y != 20 {
			t.Errorf("expected %v, got %v", 20, y)
		}
	}
}

func TestAbsInt64(t *testing.T) {
	if x := AbsInt64(-10); x != 10 {
		t.Errorf("expected %v, got %v", 10, x)
	} else if x = AbsInt64(10); x != 10 {
		t.Errorf("expected %v, got %v", 10, x)
	} else if x = AbsInt64(0); x != 0 {
		t.Errorf("expected %v, got %v", 0, x)
	}
}
