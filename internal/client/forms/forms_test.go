package forms

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dmitrijs2005/shopadmin/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stage(t *testing.T, p *Previews, names ...string) []Preview {
	t.Helper()
	src := t.TempDir()
	out := make([]Preview, 0, len(names))
	for _, n := range names {
		path := filepath.Join(src, n)
		require.NoError(t, os.WriteFile(path, []byte("img:"+n), 0o600))
		pv, err := p.Add(path)
		require.NoError(t, err)
		out = append(out, pv)
	}
	return out
}

func validationField(t *testing.T, err error, field string) string {
	t.Helper()
	require.ErrorIs(t, err, ErrValidation)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	return ve.Field(field)
}

func TestAuthForms(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"login empty password", Login{Email: "a@b.com"}.Validate(), "Please fill all fields"},
		{"login ok", Login{Email: "a@b.com", Password: []byte("x")}.Validate(), ""},
		{"register missing phone", Register{Name: "A", Email: "a@b.com", Password: []byte("x")}.Validate(), "Pls Fill All Fields"},
		{"register ok", Register{Name: "A", Email: "a@b.com", Phone: "1", Password: []byte("x")}.Validate(), ""},
		{"otp short", OTP{Code: "12345"}.Validate(), "Please complete the OTP."},
		{"otp letters", OTP{Code: "12a456"}.Validate(), "Please complete the OTP."},
		{"otp ok", OTP{Code: " 123456 "}.Validate(), ""},
		{"forgot empty", Forgot{Email: "  "}.Validate(), "Please fill in the email field"},
		{"reset empty", Reset{Password: []byte("a")}.Validate(), "Please fill all fields"},
		{"reset mismatch", Reset{Password: []byte("a"), Confirm: []byte("b")}.Validate(), "Passwords do not match"},
		{"reset ok", Reset{Password: []byte("a"), Confirm: []byte("a")}.Validate(), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.want == "" {
				assert.NoError(t, tt.err)
				return
			}
			assert.Equal(t, tt.want, validationField(t, tt.err, FieldForm))
		})
	}
}

func validProduct() Product {
	return Product{Name: "Phone", Price: "99.5", Quantity: "3", CategoryID: "c1"}
}

func TestProduct_ImageBounds(t *testing.T) {
	p, err := NewPreviews(t.TempDir())
	require.NoError(t, err)

	f := validProduct()
	_, err = f.CreatePayload()
	assert.Equal(t, "At least one image is required.", validationField(t, err, "images"))

	f.Images = stage(t, p, "1.png", "2.png", "3.png", "4.png", "5.png")
	form, err := f.CreatePayload()
	assert.Nil(t, form, "nothing to send")
	assert.Contains(t, strings.ToLower(validationField(t, err, "images")), "maximum 4 images")

	f.Images = f.Images[:4]
	form, err = f.CreatePayload()
	require.NoError(t, err)
	assert.Len(t, form.Files, 4)
	for _, file := range form.Files {
		assert.Equal(t, "images", file.Field)
	}
	v, _ := form.Value("discount")
	assert.Equal(t, "0", v)
}

func TestProduct_RequiredAndNumeric(t *testing.T) {
	err := Product{Price: "abc", Quantity: "1.5", Keep: []string{"u"}}.Validate()
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, map[string]string{
		"name":       "Name is required.",
		"price":      "Price must be a number.",
		"quantity":   "Quantity must be a whole number.",
		"categoryId": "Category is required.",
	}, ve.Fields)
}

func TestProduct_Edit(t *testing.T) {
	p, err := NewPreviews(t.TempDir())
	require.NoError(t, err)

	f := EditProduct(models.Product{
		Name: "Phone", Price: 10, Quantity: 2, CategoryID: "c1",
		Images: []string{"https://cdn/a.png", "https://cdn/b.png"},
	})
	assert.Equal(t, "10", f.Price)

	require.NoError(t, f.DropExisting("https://cdn/a.png"))
	err = f.DropExisting("https://cdn/b.png")
	assert.Equal(t, "At least one image is required.", validationField(t, err, "images"))
	assert.Error(t, f.DropExisting("https://cdn/zzz.png"))

	f.Images = stage(t, p, "new.jpg")
	form, err := f.EditPayload()
	require.NoError(t, err)

	keep, _ := form.Value("imagesToKeep")
	remove, _ := form.Value("imagesToRemove")
	assert.JSONEq(t, `["https://cdn/b.png"]`, keep)
	assert.JSONEq(t, `["https://cdn/a.png"]`, remove)
	require.Len(t, form.Files, 1)

	// kept plus added must stay within bounds
	f.Images = stage(t, p, "1.png", "2.png", "3.png", "4.png")
	_, err = f.EditPayload()
	assert.Contains(t, validationField(t, err, "images"), "Maximum 4")
}

func TestProduct_EditEncodesEmptyLists(t *testing.T) {
	f := validProduct()
	f.Keep = []string{"https://cdn/a.png"}
	form, err := f.EditPayload()
	require.NoError(t, err)
	remove, _ := form.Value("imagesToRemove")
	assert.Equal(t, "[]", remove)
}

func TestCategory(t *testing.T) {
	p, err := NewPreviews(t.TempDir())
	require.NoError(t, err)

	_, err = Category{Name: "Phones"}.CreatePayload()
	assert.Equal(t, "Category image is required.", validationField(t, err, "image"))

	img := stage(t, p, "c.png")[0]
	form, err := Category{Name: "Phones", Image: &img}.CreatePayload()
	require.NoError(t, err)
	require.Len(t, form.Files, 1)
	assert.Equal(t, "image", form.Files[0].Field)

	form, err = Category{Name: "Phones"}.EditPayload()
	require.NoError(t, err)
	assert.Empty(t, form.Files)
	_, ok := form.Value("imagePublicId")
	assert.False(t, ok)

	form, err = Category{Name: "Phones", Image: &img, ImagePublicID: "pub1"}.EditPayload()
	require.NoError(t, err)
	v, _ := form.Value("imagePublicId")
	assert.Equal(t, "pub1", v)

	_, err = Category{Name: " "}.EditPayload()
	assert.Equal(t, "Category name is required.", validationField(t, err, "name"))
}

func TestProjectAndElectronic(t *testing.T) {
	p, err := NewPreviews(t.TempDir())
	require.NoError(t, err)

	_, err = Project{Name: "Site"}.CreatePayload()
	require.ErrorIs(t, err, ErrValidation)

	file := stage(t, p, "shot.png")[0]
	form, err := Project{Name: "Site", File: &file}.CreatePayload()
	require.NoError(t, err)
	assert.Equal(t, "project", form.Files[0].Field)

	form, err = Project{Name: "Site"}.EditPayload()
	require.NoError(t, err)
	assert.Empty(t, form.Files)

	_, err = Electronic{Name: "Lamp"}.Payload()
	require.ErrorIs(t, err, ErrValidation)

	body, err := Electronic{Name: "Lamp", Category: "60W"}.Payload()
	require.NoError(t, err)
	assert.Equal(t, electronicBody{Name: "Lamp", Wattage: "60W"}, body)
}
