package relationship

import (
	"testing"

	"github.com/agenthands/regcompare/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const none = int(model.NoPerson)

func person(id int) model.Person {
	return model.Person{ID: model.PersonID(id), Name: model.Name{Given: "P", Surname: "X"}}
}

func family(id, father, mother int, children ...int) model.Family {
	f := model.Family{ID: model.FamilyID(id), Father: model.PersonID(father), Mother: model.PersonID(mother)}
	for _, c := range children {
		f.Children = append(f.Children, model.PersonID(c))
	}
	return f
}

func buildEntry(t *testing.T, ids []int, families ...model.Family) *model.Entry {
	t.Helper()
	e := model.NewEntry("1")
	for _, id := range ids {
		require.NoError(t, e.AddPerson(person(id)))
	}
	for _, f := range families {
		require.NoError(t, e.AddFamily(f))
	}
	require.NoError(t, e.Validate())
	return e
}

func TestCompute_NuclearFamily(t *testing.T) {
	e := buildEntry(t, []int{1, 2, 3, 4}, family(1, 1, 2, 3, 4))

	codes := Compute(e)

	assert.Equal(t, "0", codes.Of(1))
	assert.Equal(t, "0W", codes.Of(2))
	assert.Equal(t, "0C", codes.Of(3))
	assert.Equal(t, "0C", codes.Of(4))
}

func TestCompute_GrandparentsAndSecondComponent(t *testing.T) {
	e := buildEntry(t,
		[]int{1, 2, 3, 5, 6, 7, 8, 9, 10},
		family(1, 1, 2, 3),
		family(2, 5, 6, 1),
		family(3, 7, 8, 2),
		family(4, 9, 10),
	)

	codes := Compute(e)

	assert.Equal(t, "0", codes.Of(1))
	assert.Equal(t, "0W", codes.Of(2))
	assert.Equal(t, "0C", codes.Of(3))
	assert.Equal(t, "0F", codes.Of(5))
	assert.Equal(t, "0M", codes.Of(6))
	assert.Equal(t, "0WF", codes.Of(7))
	assert.Equal(t, "0WM", codes.Of(8))
	assert.Equal(t, "1", codes.Of(9))
	assert.Equal(t, "1W", codes.Of(10))
}

func TestCompute_WifeTrunkAndSiblings(t *testing.T) {
	// Mother has the smallest id, so she is the trunk.
	e := buildEntry(t, []int{1, 2, 3, 4, 5},
		family(1, 2, 1, 3),
		family(2, 4, 5),
	)
	require.NoError(t, e.AddFamily(family(3, none, none, 3, 4)))

	codes := Compute(e)

	assert.Equal(t, "0", codes.Of(1))
	assert.Equal(t, "0H", codes.Of(2))
	assert.Equal(t, "0C", codes.Of(3))
	assert.Equal(t, "0CS", codes.Of(4))
	assert.Equal(t, "0CSW", codes.Of(5))
}

func TestCompute_IsolatedPerson(t *testing.T) {
	e := buildEntry(t, []int{7, 3}, family(1, 3, none))

	codes := Compute(e)

	assert.Equal(t, "0", codes.Of(3))
	assert.Equal(t, "1", codes.Of(7))
	assert.Equal(t, "", Suffix(codes.Of(7)))
}

func TestCompute_RemarriageLoopTerminates(t *testing.T) {
	// 1 marries 2 and later 3; 3 had previously married 4 who married 2.
	e := buildEntry(t, []int{1, 2, 3, 4},
		family(1, 1, 2),
		family(2, 1, 3),
		family(3, 4, 3),
		family(4, 4, 2),
	)

	codes := Compute(e)

	require.Len(t, codes, 4)
	assert.Equal(t, "0", codes.Of(1))
	assert.Equal(t, "0W", codes.Of(2))
	assert.Equal(t, "0W", codes.Of(3))
	assert.Equal(t, "0WH", codes.Of(4))
}

func TestCompute_Idempotent(t *testing.T) {
	e := buildEntry(t, []int{1, 2, 3, 4, 5, 6},
		family(1, 1, 2, 3, 4),
		family(2, 3, 5, 6),
	)

	first := Compute(e)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Compute(e))
	}
	assert.Equal(t, first.Of(6), Relationship(e, 6))
}

func TestCompute_IsomorphicForestsShareSuffixes(t *testing.T) {
	a := buildEntry(t, []int{1, 2, 3, 4}, family(1, 1, 2, 3, 4))
	b := buildEntry(t, []int{5, 6, 10, 20, 30, 40},
		family(7, 5, 6),
		family(9, 10, 20, 30, 40),
	)

	ca, cb := Compute(a), Compute(b)
	pairs := map[model.PersonID]model.PersonID{1: 10, 2: 20, 3: 30, 4: 40}
	for ida, idb := range pairs {
		assert.Equal(t, Suffix(ca.Of(ida)), Suffix(cb.Of(idb)), "person %d vs %d", ida, idb)
	}
	assert.Equal(t, "0", Component(ca.Of(1)))
	assert.Equal(t, "1", Component(cb.Of(10)))
}

func TestByRef(t *testing.T) {
	e := model.NewEntry("1")
	require.NoError(t, e.AddPerson(model.Person{ID: 1, UID: "@I1@"}))
	require.NoError(t, e.AddPerson(model.Person{ID: 2, UID: "@I2@"}))
	require.NoError(t, e.AddFamily(family(1, 1, 2)))

	assert.Equal(t, "0", ByRef(e, "1"))
	assert.Equal(t, "0W", ByRef(e, "@I2@"))
	assert.Equal(t, "", ByRef(e, "99"))
	assert.Equal(t, "", ByRef(e, "not-a-person"))
}

func TestSuffixAndComponent(t *testing.T) {
	assert.Equal(t, "WF", Suffix("12WF"))
	assert.Equal(t, "12", Component("12WF"))
	assert.Equal(t, "", Suffix("3"))
	assert.Equal(t, "", Component(""))
}

func TestCodes_Isolated(t *testing.T) {
	// 1 and 2 are a couple; 3 stands alone; 4 is a lone mother of 5. With ten
	// or more components a bare "1" must not be confused with "10".
	ids := []int{1, 2, 3, 4, 5}
	for id := 20; id < 30; id++ {
		ids = append(ids, id)
	}
	e := buildEntry(t, ids, family(1, 1, 2), family(2, none, 4, 5))

	codes := Compute(e)

	assert.False(t, codes.Isolated(1))
	assert.False(t, codes.Isolated(2))
	assert.True(t, codes.Isolated(3))
	assert.False(t, codes.Isolated(4))
	assert.False(t, codes.Isolated(5))
	assert.Equal(t, "1", codes.Of(3))
	assert.Equal(t, "10", codes.Of(27))
	assert.True(t, codes.Isolated(20))
	assert.True(t, codes.Isolated(99))
}
