package tags

import (
	"reflect"
	"testing"
)

func TestIndexLifecycle(t *testing.T) {
	var x Index[int]

	x.Add("scene", 1)
	x.Add("scene", 2)
	x.Add("scene", 1) // already present
	x.Add("ground", 2)

	if got := x.All("scene"); !reflect.DeepEqual(got, []int{1, 2}) {
		t.Errorf("All(scene) = %v, expected [1 2]", got)
	}
	if first, ok := x.First("ground"); !ok || first != 2 {
		t.Errorf("First(ground) = %d, %v", first, ok)
	}

	x.Remove("scene", 1)
	x.Remove("scene", 99)
	x.Remove("missing", 1)

	if got := x.All("scene"); !reflect.DeepEqual(got, []int{2}) {
		t.Errorf("All(scene) after remove = %v, expected [2]", got)
	}
	if !reflect.DeepEqual(x.Tags(), []string{"ground", "scene"}) {
		t.Errorf("Tags() = %v", x.Tags())
	}
}

func TestIndexEmptyTag(t *testing.T) {
	var x Index[string]

	if got := x.All("nothing"); len(got) != 0 {
		t.Errorf("All on unknown tag = %v, expected empty", got)
	}
	if _, ok := x.First("nothing"); ok {
		t.Error("First on unknown tag should report false")
	}
}

func TestIndexAllReturnsCopy(t *testing.T) {
	var x Index[int]
	x.Add("t", 1)

	got := x.All("t")
	got[0] = 42

	if first, _ := x.First("t"); first != 1 {
		t.Error("mutating the result of All must not change the index")
	}
}
