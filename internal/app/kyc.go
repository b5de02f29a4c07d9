package app

import (
	"context"
	"log"

	"github.com/mehrbod2002/fxmobile/internal/client"
	"github.com/mehrbod2002/fxmobile/internal/models"
	"github.com/mehrbod2002/fxmobile/internal/router"
	"github.com/mehrbod2002/fxmobile/internal/validation"
)

// RefreshProfile re-reads the profile from the server. A failure is logged
// and the current snapshot stays.
func (a *App) RefreshProfile(ctx context.Context) {
	res := a.api.Profile(ctx, a.Session.Token())
	if !res.OK {
		log.Printf("Failed to refresh profile: %s (%v)", res.Failure(), res.Err)
		return
	}
	var data models.UserData
	if err := res.Decode(&data); err != nil {
		log.Printf("Failed to decode profile: %v", err)
		return
	}
	a.Profile.UpdateProfile(data)
	a.Profile.ApplyServerFlags(data)
}

func (a *App) UpdateProfile(ctx context.Context, form validation.ProfileForm) error {
	done := a.begin("profile")
	defer done()

	if err := validation.Validate(form); err != nil {
		return a.invalid(err)
	}
	res := a.api.UpdateProfile(ctx, a.Session.Token(), client.ProfileUpdateRequest{
		Name:        form.Name,
		Mobile:      form.Mobile,
		CountryCode: form.CountryCode,
		Dob:         form.Dob,
		Gender:      form.Gender,
		Address:     form.Address,
	})
	if err := a.applyKYC(res); err != nil {
		return err
	}
	a.toast(ToastSuccess, successMessage(res, "Profile updated successfully"))
	return nil
}

func (a *App) SubmitKYCLevel1(ctx context.Context, form validation.KYCLevel1Form) error {
	done := a.begin("kyc")
	defer done()

	if err := validation.Validate(form); err != nil {
		return a.invalid(err)
	}
	res := a.api.SubmitKYCLevel1(ctx, a.Session.Token(), client.KYCLevel1Request{
		Name:        form.Name,
		Dob:         form.Dob,
		CountryCode: form.CountryCode,
	})
	if err := a.applyKYC(res); err != nil {
		return err
	}
	a.toast(ToastSuccess, successMessage(res, "KYC Level 1 completed"))
	return nil
}

// SubmitKYCLevel2 uploads the proof of identity and proof of address.
func (a *App) SubmitKYCLevel2(ctx context.Context, poi, poa client.Document) error {
	done := a.begin("kyc")
	defer done()

	if err := validation.Validate(validation.KYCLevel2Form{POI: poi.Name, POA: poa.Name}); err != nil {
		return a.invalid(err)
	}
	if poi.Reader == nil || poa.Reader == nil {
		return a.invalid(&validation.Error{Field: "POI", Tag: "required", Message: "Please upload both documents"})
	}
	res := a.api.UploadKYCDocuments(ctx, a.Session.Token(), poi, poa)
	if err := a.applyKYC(res); err != nil {
		return err
	}
	a.toast(ToastSuccess, successMessage(res, "Documents submitted successfully"))
	return a.Router.Reset(router.Home)
}

// applyKYC folds a KYC or profile response into the store. The level only
// ever rises here.
func (a *App) applyKYC(res *client.Result) error {
	if !res.OK {
		return a.failed(res)
	}
	var data models.KYCResult
	if err := res.Decode(&data); err != nil {
		return a.decodeFailed(err)
	}
	a.Profile.UpdateProfile(data.UserData)
	a.Profile.RaiseLevel(data.Level)
	return nil
}
