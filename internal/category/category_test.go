package category

import "testing"

func TestFromGrade(t *testing.T) {
	cases := []struct {
		grade int
		want  Category
	}{
		{5, Primary},
		{6, Primary},
		{7, Junior},
		{8, Junior},
		{9, Senior},
		{10, Senior},
	}

	for _, c := range cases {
		got, err := FromGrade(c.grade)
		if err != nil {
			t.Errorf("FromGrade(%d) returned error: %v", c.grade, err)
			continue
		}
		if got != c.want {
			t.Errorf("FromGrade(%d) = %s, want %s", c.grade, got, c.want)
		}
	}
}

func TestFromGradeRejectsOutOfRange(t *testing.T) {
	for _, grade := range []int{0, 4, 11, -1, 100} {
		if _, err := FromGrade(grade); err == nil {
			t.Errorf("FromGrade(%d) expected error, got nil", grade)
		}
	}
}

func TestCategoryCode(t *testing.T) {
	if Primary.Code() != "P" || Junior.Code() != "J" || Senior.Code() != "S" {
		t.Errorf("category codes wrong: P=%s J=%s S=%s", Primary.Code(), Junior.Code(), Senior.Code())
	}
}

func TestFormatUsername(t *testing.T) {
	cases := []struct {
		cat  Category
		seq  int
		want string
	}{
		{Primary, 7, "CSMC_P_0007"},
		{Senior, 42, "CSMC_S_0042"},
		{Junior, 1, "CSMC_J_0001"},
		{Primary, 9999, "CSMC_P_9999"},
	}

	for _, c := range cases {
		if got := FormatUsername(c.cat, c.seq); got != c.want {
			t.Errorf("FormatUsername(%s, %d) = %s, want %s", c.cat, c.seq, got, c.want)
		}
	}
}
