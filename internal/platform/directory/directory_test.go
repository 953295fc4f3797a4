package directory

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casework/casework/internal/domain/contact"
	"github.com/casework/casework/internal/domain/reminder"
	"github.com/casework/casework/internal/domain/resource"
)

const sampleYAML = `
resources:
  - id: r1
    name: Harbor Shelter
    type: shelter
    description: Overnight beds
    address: 1 Harbor Dr
    phone: 555-0100
    status: open
    bed_status: limited
    beds_available: 2
    accepts_walk_ins: true
    tags: [Emergency]
    distance: 1.5
    last_updated: 2026-10-01T12:00:00Z
contacts:
  - id: k1
    name: Crisis Line
    phone: "988"
    description: 24/7
    category: crisis
safety_tips:
  - id: s1
    title: Check in
reminders:
  - id: m1
    title: Call back
    due_date: 2026-10-02T09:00:00Z
    priority: high
    related_to: {type: resource, id: r1, name: Harbor Shelter}
`

const sampleTOML = `
[[resources]]
id = "r1"
name = "Harbor Shelter"
type = "shelter"
description = "Overnight beds"
address = "1 Harbor Dr"
phone = "555-0100"
status = "open"
bed_status = "limited"
beds_available = 2
accepts_walk_ins = true
tags = ["Emergency"]
distance = 1.5
last_updated = 2026-10-01T12:00:00Z

[resources.coordinates]
lat = 32.7
lng = -117.1

[[contacts]]
id = "k1"
name = "Crisis Line"
phone = "988"
description = "24/7"
category = "crisis"

[[clients]]
id = "c1"
name = "Dana Reyes"
age = 40
gender = "Female"
last_contact = 2026-10-01T08:00:00Z
`

func TestEmbedded(t *testing.T) {
	d, err := Embedded()
	require.NoError(t, err)

	assert.NotEmpty(t, d.Resources)
	assert.Len(t, d.Contacts, 20)
	assert.Len(t, d.SafetyTips, 8)
	assert.NotEmpty(t, d.Clients)
	assert.NotEmpty(t, d.Notes)
	assert.NotEmpty(t, d.Reminders)

	seen := map[string]bool{}
	for _, r := range d.Resources {
		assert.False(t, seen[r.ID], "duplicate resource id %s", r.ID)
		seen[r.ID] = true
		assert.NotNil(t, r.Tags)
	}

	// The seed must load into the resource repository as-is.
	_, err = resource.NewMemoryRepo(d.Resources)
	require.NoError(t, err)
	_, err = contact.NewMemoryRepo(d.Contacts, d.SafetyTips)
	require.NoError(t, err)
}

func TestDecodeYAML(t *testing.T) {
	d, err := Decode([]byte(sampleYAML), FormatYAML)
	require.NoError(t, err)

	require.Len(t, d.Resources, 1)
	r := d.Resources[0]
	assert.Equal(t, resource.TypeShelter, r.Type)
	require.NotNil(t, r.BedStatus)
	assert.Equal(t, resource.BedsLimited, *r.BedStatus)
	require.NotNil(t, r.BedsAvailable)
	assert.Equal(t, 2, *r.BedsAvailable)
	require.NotNil(t, r.Distance)
	assert.InDelta(t, 1.5, *r.Distance, 1e-9)
	assert.Nil(t, r.Coordinates)
	assert.Equal(t, 2026, r.LastUpdated.Year())

	require.Len(t, d.Contacts, 1)
	assert.Equal(t, "988", d.Contacts[0].Phone)
	require.Len(t, d.SafetyTips, 1)

	require.Len(t, d.Reminders, 1)
	rem := d.Reminders[0]
	assert.Equal(t, reminder.PriorityHigh, rem.Priority)
	require.NotNil(t, rem.RelatedTo)
	assert.Equal(t, reminder.RelatedResource, rem.RelatedTo.Type)
	assert.Equal(t, "r1", rem.RelatedTo.ID)
}

func TestDecodeTOML(t *testing.T) {
	d, err := Decode([]byte(sampleTOML), FormatTOML)
	require.NoError(t, err)

	require.Len(t, d.Resources, 1)
	require.NotNil(t, d.Resources[0].Coordinates)
	assert.InDelta(t, -117.1, d.Resources[0].Coordinates.Lng, 1e-9)
	require.Len(t, d.Clients, 1)
	assert.Equal(t, "Dana Reyes", d.Clients[0].Name)
	assert.Equal(t, []string{}, d.Clients[0].Tags)
}

func TestDecodeEmpty(t *testing.T) {
	d, err := Decode(nil, FormatYAML)
	require.NoError(t, err)
	assert.Empty(t, d.Resources)
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	_, err := Decode([]byte("resources:\n  - id: r1\n    nmae: typo\n"), FormatYAML)
	assert.Error(t, err)

	_, err = Decode([]byte("[[contacts]]\nid = \"k1\"\nphone_number = \"1\"\n"), FormatTOML)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "phone_number")
}

func TestDecodeRejectsInvalidRecords(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{
			name: "bad type",
			data: "resources:\n  - {id: r1, name: A, type: spa, status: open}\n",
			want: "resources[0] (r1)",
		},
		{
			name: "bad bed status",
			data: "resources:\n  - {id: r1, name: A, type: food, status: open}\n  - {id: r2, name: B, type: shelter, status: open, bed_status: overflow}\n",
			want: "resources[1] (r2)",
		},
		{
			name: "bad category",
			data: "contacts:\n  - {id: k1, name: A, phone: '1', category: fire}\n",
			want: "contacts[0] (k1)",
		},
		{
			name: "bad related type",
			data: "reminders:\n  - {id: m1, title: A, related_to: {type: plan, id: x, name: y}}\n",
			want: "reminders[0] (m1)",
		},
		{
			name: "nan distance",
			data: "resources:\n  - {id: r1, name: A, type: food, status: open, distance: 3}\n  - {id: r2, name: B, type: food, status: open, distance: .nan}\n",
			want: "resources[1] (r2)",
		},
		{
			name: "infinite distance",
			data: "resources:\n  - {id: r1, name: A, type: food, status: open, distance: .inf}\n",
			want: "resources[0] (r1)",
		},
		{
			name: "client without name",
			data: "clients:\n  - {id: c1}\n",
			want: "clients[0]",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data), FormatYAML)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDecodeTOMLRejectsNaNDistance(t *testing.T) {
	data := "[[resources]]\nid = \"r1\"\nname = \"A\"\ntype = \"food\"\nstatus = \"open\"\ndistance = nan\n"
	_, err := Decode([]byte(data), FormatTOML)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resources[0] (r1)")
	assert.Contains(t, err.Error(), "distance")
}

func TestFormatFor(t *testing.T) {
	assert.Equal(t, FormatTOML, FormatFor("dir/seed.TOML"))
	assert.Equal(t, FormatYAML, FormatFor("seed.yml"))
	assert.Equal(t, FormatYAML, FormatFor("seed"))
}

func TestLoaderLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "directory.toml")
	require.NoError(t, os.WriteFile(path, []byte(sampleTOML), 0o600))

	l := &Loader{}
	d, err := l.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, d.Clients, 1)

	_, err = l.Load(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoaderEmbedded(t *testing.T) {
	d, err := (&Loader{}).Load(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, d.SafetyTips, 8)
}

type fakeS3 struct {
	objects map[string]string
	calls   []string
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	key := aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)
	f.calls = append(f.calls, key)
	body, ok := f.objects[key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func TestLoaderS3(t *testing.T) {
	fake := &fakeS3{objects: map[string]string{
		"casework/dir/seed.yaml": sampleYAML,
		"casework/dir/seed.toml": sampleTOML,
	}}
	l := &Loader{S3: fake}
	ctx := context.Background()

	d, err := l.Load(ctx, "s3://casework/dir/seed.yaml")
	require.NoError(t, err)
	assert.Len(t, d.Reminders, 1)

	d, err = l.Load(ctx, "s3://casework/dir/seed.toml")
	require.NoError(t, err)
	assert.Len(t, d.Clients, 1)

	_, err = l.Load(ctx, "s3://casework/missing.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3://casework/missing.yaml")

	assert.Equal(t, []string{"casework/dir/seed.yaml", "casework/dir/seed.toml", "casework/missing.yaml"}, fake.calls)
}

func TestParseS3URL(t *testing.T) {
	bucket, key, err := parseS3URL("s3://b/a/b/c.yaml")
	require.NoError(t, err)
	assert.Equal(t, "b", bucket)
	assert.Equal(t, "a/b/c.yaml", key)

	for _, bad := range []string{"s3://", "s3://bucket", "s3://bucket/", "s3:///key"} {
		_, _, err := parseS3URL(bad)
		assert.Error(t, err, bad)
	}
}
