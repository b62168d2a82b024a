package bloodtype_test

import (
	"net/http"
	"testing"

	"donorlink/internal/domains/bloodtype"
	"donorlink/shared/failure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsCompatible_FullMatrix(t *testing.T) {
	// rows: donor, columns: recipient in bloodtype.All order (1-, 1+, 2-, 2+, 3-, 3+, 4-, 4+)
	matrix := map[bloodtype.Type][8]bool{
		bloodtype.OneNeg:   {true, true, true, true, true, true, true, true},
		bloodtype.OnePos:   {false, true, false, true, false, true, false, true},
		bloodtype.TwoNeg:   {false, false, true, true, false, false, true, true},
		bloodtype.TwoPos:   {false, false, false, true, false, false, false, true},
		bloodtype.ThreeNeg: {false, false, false, false, true, true, true, true},
		bloodtype.ThreePos: {false, false, false, false, false, true, false, true},
		bloodtype.FourNeg:  {false, false, false, false, false, false, true, true},
		bloodtype.FourPos:  {false, false, false, false, false, false, false, true},
	}

	cases := 0

	for donor, row := range matrix {
		for i, recipient := range bloodtype.All {
			assert.Equal(t, row[i], bloodtype.IsCompatible(donor, recipient), "%s -> %s", donor, recipient)

			cases++
		}
	}

	assert.Equal(t, 64, cases)
}

func TestUniversalRecipientColumn(t *testing.T) {
	for _, donor := range bloodtype.All {
		assert.True(t, bloodtype.IsCompatible(donor, bloodtype.FourPos), donor)
	}

	assert.Equal(t, bloodtype.All, bloodtype.Donors(bloodtype.FourPos))
	assert.Equal(t, []bloodtype.Type{bloodtype.OneNeg}, bloodtype.Donors(bloodtype.OneNeg))
}

func TestParse(t *testing.T) {
	parsed, err := bloodtype.Parse(" 3- ")
	require.NoError(t, err)
	assert.Equal(t, bloodtype.ThreeNeg, parsed)

	for _, input := range []string{"", "AB+", "5+", "1", "+1", "1 +"} {
		_, err := bloodtype.Parse(input)

		assert.ErrorIs(t, err, bloodtype.ErrInvalid, input)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	}
}

func TestUnknownTypesAreNeverCompatible(t *testing.T) {
	assert.False(t, bloodtype.IsCompatible("9+", bloodtype.FourPos))
	assert.False(t, bloodtype.IsCompatible(bloodtype.OneNeg, "O+"))
	assert.Empty(t, bloodtype.Recipients("x"))
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "1- (O Rh-) is a universal donor and can give to every blood type", bloodtype.Describe(bloodtype.OneNeg))
	assert.Equal(t, "2- (A Rh-) can give to 2+, 2-, 4+, 4-", bloodtype.Describe(bloodtype.TwoNeg))
	assert.Equal(t, "4+ (AB Rh+) can give to 4+", bloodtype.Describe(bloodtype.FourPos))
	assert.Equal(t, "unknown blood type", bloodtype.Describe("0"))
}

func TestRecipientsReturnsCopy(t *testing.T) {
	list := bloodtype.Recipients(bloodtype.OneNeg)
	list[0] = bloodtype.FourPos

	assert.Equal(t, bloodtype.OneNeg, bloodtype.Recipients(bloodtype.OneNeg)[0])
}
