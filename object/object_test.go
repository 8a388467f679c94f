package object

import "testing"

func TestStringHashKey(t *testing.T) {
	hello1 := &String{Value: "Hello World"}
	hello2 := &String{Value: "Hello World"}
	diff1 := &String{Value: "My name is johnny"}
	diff2 := &String{Value: "My name is johnny"}

	if hello1.HashKey() != hello2.HashKey() {
		t.Errorf("strings with same content have different hash keys")
	}
	if diff1.HashKey() != diff2.HashKey() {
		t.Errorf("strings with same content have different hash keys")
	}
	if hello1.HashKey() == diff1.HashKey() {
		t.Errorf("strings with different content have same hash keys")
	}
}

func TestNumberHashKey(t *testing.T) {
	one1 := &Number{Value: 1}
	one2 := &Number{Value: 1}
	two1 := &Number{Value: 2}

	if one1.HashKey() != one2.HashKey() {
		t.Errorf("numbers with same value have different hash keys")
	}
	if one1.HashKey() == two1.HashKey() {
		t.Errorf("numbers with different value have same hash keys")
	}
}

func TestBooleanHashKey(t *testing.T) {
	if TrueValue.HashKey() != (&Boolean{Value: true}).HashKey() {
		t.Errorf("true does not have a stable hash key")
	}
	if TrueValue.HashKey() == FalseValue.HashKey() {
		t.Errorf("true and false have the same hash key")
	}
}

func TestValuesEqual(t *testing.T) {
	if !ValuesEqual(&Number{Value: 1}, &Number{Value: 1}) {
		t.Errorf("equal numbers reported unequal")
	}
	if ValuesEqual(&Number{Value: 1}, &Number{Value: 2}) {
		t.Errorf("unequal numbers reported equal")
	}
	if !ValuesEqual(NilValue, &Nil{}) {
		t.Errorf("nil values must compare equal regardless of identity")
	}
	if ValuesEqual(&Number{Value: 1}, &String{Value: "1"}) {
		t.Errorf("values of different types reported equal")
	}
}

func TestEnvironmentScoping(t *testing.T) {
	outer := NewEnvironment()
	outer.Set("x", &Number{Value: 1})

	inner := NewEnclosedEnvironment(outer)
	if _, ok := inner.Get("x"); !ok {
		t.Fatalf("inner environment did not see outer binding")
	}

	inner.Set("x", &Number{Value: 2})
	if v, _ := inner.Get("x"); v.(*Number).Value != 2 {
		t.Errorf("shadowing in inner scope did not take effect")
	}
	if v, _ := outer.Get("x"); v.(*Number).Value != 1 {
		t.Errorf("shadowing in inner scope leaked into outer scope")
	}
}

func TestIsTruthy(t *testing.T) {
	tests := []struct {
		value    Value
		expected bool
	}{
		{NilValue, false},
		{FalseValue, false},
		{TrueValue, true},
		{&Number{Value: 0}, true},
		{&String{Value: ""}, true},
	}

	for _, tt := range tests {
		if IsTruthy(tt.value) != tt.expected {
			t.Errorf("IsTruthy(%v) = %v, want %v", tt.value.Inspect(), !tt.expected, tt.expected)
		}
	}
}
