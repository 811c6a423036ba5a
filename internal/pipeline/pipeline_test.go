package pipeline

import (
	"bytes"
	"crypto/rand"
	mrand "math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helixarc/helix/internal/damage"
	"github.com/helixarc/helix/internal/herrors"
)

func smallParams() Params {
	return Params{Data: 4, Parity: 2, ShardSize: 16, Tag: "alpha"}
}

func randomPayload(t *testing.T, n int) []byte {
	t.Helper()
	b := make([]byte, n)
	_, err := rand.Read(b)
	require.NoError(t, err)
	return b
}

func TestCompileRestoreRoundTripPlaintext(t *testing.T) {
	payload := randomPayload(t, 4096)
	p := smallParams()

	archive, err := Compile(payload, p)
	require.NoError(t, err)

	got, err := Restore(archive, p)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestCompileRestoreRoundTripEncrypted(t *testing.T) {
	payload := randomPayload(t, 2048)
	p := smallParams()
	p.Password = "correct horse battery staple"

	archiveText, err := Compile(payload, p)
	require.NoError(t, err)

	got, err := Restore(archiveText, p)
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	wrong := p
	wrong.Password = "wrong password entirely"
	_, err = Restore(archiveText, wrong)
	require.Error(t, err)
	assert.True(t, herrors.Is(err, herrors.DecryptionFailed))
}

func TestRestoreRequiresPasswordWhenEncrypted(t *testing.T) {
	payload := randomPayload(t, 256)
	p := smallParams()
	p.Password = "a password"

	archiveText, err := Compile(payload, p)
	require.NoError(t, err)

	noPass := p
	noPass.Password = ""
	_, err = Restore(archiveText, noPass)
	require.Error(t, err)
	assert.True(t, herrors.Is(err, herrors.PasswordRequired))
}

func TestRestoreRejectsParameterMismatch(t *testing.T) {
	payload := randomPayload(t, 256)
	p := smallParams()

	archiveText, err := Compile(payload, p)
	require.NoError(t, err)

	mismatched := p
	mismatched.Data = p.Data + 1
	_, err = Restore(archiveText, mismatched)
	require.Error(t, err)
	assert.True(t, herrors.Is(err, herrors.ParameterMismatch))
}

func TestRestoreWithWrongPrimersFails(t *testing.T) {
	payload := randomPayload(t, 256)
	p := smallParams()
	p.PrimerFwd = "CAGTCAGTCAGTCAGTCAGT"
	p.PrimerRev = "TGACTGACTGACTGACTGAC"

	archiveText, err := Compile(payload, p)
	require.NoError(t, err)

	wrongPrimers := p
	wrongPrimers.PrimerFwd = DefaultPrimerFwd
	wrongPrimers.PrimerRev = DefaultPrimerRev
	_, err = Restore(archiveText, wrongPrimers)
	require.Error(t, err)
}

func TestEmptyPayloadRoundTrip(t *testing.T) {
	p := smallParams()
	archiveText, err := Compile(nil, p)
	require.NoError(t, err)

	got, err := Restore(archiveText, p)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDropoutTolerance(t *testing.T) {
	payload := randomPayload(t, 1<<16)
	p := Params{Data: 10, Parity: 5, ShardSize: 32, Tag: "papercut"}

	archiveText, err := Compile(payload, p)
	require.NoError(t, err)

	damaged := damage.Apply(archiveText, damage.Options{
		DropoutPct: 5,
		Rand:       mrand.New(mrand.NewSource(42)),
	})

	got, err := Restore(damaged, p)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestSearchOwnTagYieldsRestorableArchive(t *testing.T) {
	payload := randomPayload(t, 512)
	p := smallParams()

	archiveText, err := Compile(payload, p)
	require.NoError(t, err)

	matched, err := Search(archiveText, p.Tag)
	require.NoError(t, err)

	got, err := Restore(matched, p)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestGhostTagSearchYieldsUnrestorableArchive(t *testing.T) {
	payload := randomPayload(t, 512)
	p := smallParams()

	archiveText, err := Compile(payload, p)
	require.NoError(t, err)

	matched, err := Search(archiveText, "no-such-tag")
	require.NoError(t, err)
	assert.Empty(t, matched)

	_, err = Restore(matched, p)
	require.Error(t, err)
}

func compileSoup(t *testing.T, p Params, payloads map[string][]byte) []byte {
	t.Helper()
	var soup bytes.Buffer
	for tag, payload := range payloads {
		pTag := p
		pTag.Tag = tag
		archiveText, err := Compile(payload, pTag)
		require.NoError(t, err)
		soup.Write(archiveText)
	}
	return soup.Bytes()
}

// TestMolecularSoupRestoreDisambiguatesArchives compiles three independent
// archives sharing the same fixed meta-strand primers/tag/salt into one
// pooled file (a "soup") and restores each by tag directly, without going
// through Search first — this is the case where naively overwriting meta
// shard buckets by index would silently hand every archive the same
// (wrong) header.
func TestMolecularSoupRestoreDisambiguatesArchives(t *testing.T) {
	p := smallParams()
	payloads := map[string][]byte{
		"alpha": randomPayload(t, 300),
		"beta":  randomPayload(t, 500),
		"gamma": randomPayload(t, 700),
	}
	soup := compileSoup(t, p, payloads)

	for tag, want := range payloads {
		pTag := p
		pTag.Tag = tag
		got, err := Restore(soup, pTag)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

// TestMolecularSoupSearchReturnsOnlyQueriedArchive is the literal "Soup"
// scenario: compile three tagged payloads into one pool, search one tag,
// then restore that filtered file and expect exactly that tag's payload.
func TestMolecularSoupSearchReturnsOnlyQueriedArchive(t *testing.T) {
	p := smallParams()
	payloads := map[string][]byte{
		"alpha": randomPayload(t, 300),
		"beta":  randomPayload(t, 500),
		"gamma": randomPayload(t, 700),
	}
	soup := compileSoup(t, p, payloads)

	matched, err := Search(soup, "beta")
	require.NoError(t, err)

	pBeta := p
	pBeta.Tag = "beta"
	got, err := Restore(matched, pBeta)
	require.NoError(t, err)
	assert.Equal(t, payloads["beta"], got)

	pAlpha := p
	pAlpha.Tag = "alpha"
	_, err = Restore(matched, pAlpha)
	require.Error(t, err)
}
