package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogComplete(t *testing.T) {
	for lang, table := range catalog {
		for _, key := range Keys {
			_, ok := table[key]
			assert.True(t, ok, "language %s is missing key %s", lang, key)
		}
		assert.Len(t, table, len(Keys), "language %s has extra keys", lang)
	}
}

func TestNewResolverRejectsUnknownDefault(t *testing.T) {
	_, err := NewResolver("fr")
	require.ErrorIs(t, err, ErrUnknownLanguage)
}

func TestResolveFallsBackToDefault(t *testing.T) {
	r, err := NewResolver(LangRU)
	require.NoError(t, err)

	// Unknown language falls back to the default table.
	got, err := r.Resolve(KeyWelcome, "xx")
	require.NoError(t, err)
	assert.Equal(t, catalog[LangRU][KeyWelcome], got)

	// Known language resolves its own table.
	got, err = r.Resolve(KeyWelcome, LangEN)
	require.NoError(t, err)
	assert.Equal(t, catalog[LangEN][KeyWelcome], got)
}

func TestResolveMissingEverywhere(t *testing.T) {
	r, err := NewResolver(LangRU)
	require.NoError(t, err)

	_, err = r.Resolve(Key("does_not_exist"), LangEN)
	require.ErrorIs(t, err, ErrMissingTranslation)
}

func TestFormatSubstitutesPlaceholders(t *testing.T) {
	r, err := NewResolver(LangEN)
	require.NoError(t, err)

	got, err := r.Format(KeyTicketCreated, LangEN, Args{"ticket_id": "7"})
	require.NoError(t, err)
	assert.Contains(t, got, "#7")
}

func TestFormatRejectsMissingArguments(t *testing.T) {
	r, err := NewResolver(LangEN)
	require.NoError(t, err)

	_, err = r.Format(KeyTicketCreated, LangEN, nil)
	require.ErrorIs(t, err, ErrMissingArgument)
}

func TestApply(t *testing.T) {
	tests := []struct {
		name    string
		tmpl    string
		args    Args
		want    string
		wantErr error
	}{
		{
			name: "all placeholders covered",
			tmpl: "Ticket #{id} from {user}",
			args: Args{"id": "3", "user": "bob"},
			want: "Ticket #3 from bob",
		},
		{
			name: "no placeholders",
			tmpl: "plain text",
			args: nil,
			want: "plain text",
		},
		{
			name:    "missing argument",
			tmpl:    "Ticket #{id}",
			args:    Args{},
			wantErr: ErrMissingArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(tt.tmpl, tt.args)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectLanguage(t *testing.T) {
	r, err := NewResolver(LangEN)
	require.NoError(t, err)

	assert.Equal(t, LangRU, r.DetectLanguage("uk"))
	assert.Equal(t, LangRU, r.DetectLanguage("kk"))
	assert.Equal(t, LangDE, r.DetectLanguage("de"))
	assert.Equal(t, LangEN, r.DetectLanguage("en"))
	assert.Equal(t, LangEN, r.DetectLanguage("fr"))
	assert.Equal(t, LangEN, r.DetectLanguage(""))
}
