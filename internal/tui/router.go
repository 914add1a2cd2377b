package tui

import "github.com/naveenspark/wisata/internal/route"

// buildPage creates the page for a route the guard admitted.
func buildPage(b pageBase, m route.Match) page {
	id, hasID := m.IntParam("id")
	notFound := notFoundPage{pageBase: b, path: m.Path}

	switch m.Route.Name {
	case route.Home:
		return newHomePage(b)
	case route.Login:
		return newLoginPage(b)
	case route.Register:
		return newRegisterPage(b)
	case route.Categories:
		return newCategoriesPage(b)
	case route.Profile:
		return newProfilePage(b, sectionReviews)
	case route.Favorites:
		return newProfilePage(b, sectionFavorites)
	case route.AdminDashboard:
		return newDashboardPage(b)
	case route.AdminDestinations:
		return newAdminListPage(b, destinationsResource)
	case route.AdminCategories:
		return newAdminListPage(b, categoriesResource)
	case route.AdminImages:
		return newAdminListPage(b, imagesResource)
	case route.AdminReviews:
		return newAdminListPage(b, reviewsResource)
	case route.AdminUsers:
		return newAdminListPage(b, usersResource)
	case route.AdminDestNew:
		return newEntityFormPage(b, destinationEntity, 0)
	case route.AdminCategoryNew:
		return newEntityFormPage(b, categoryEntity, 0)
	case route.AdminImageNew:
		return newEntityFormPage(b, imageEntity, 0)
	}

	if !hasID {
		return notFound
	}
	switch m.Route.Name {
	case route.DestinationDetail:
		return newDetailPage(b, id)
	case route.AdminDestEdit:
		return newEntityFormPage(b, destinationEntity, id)
	case route.AdminCategoryEdit:
		return newEntityFormPage(b, categoryEntity, id)
	case route.AdminUserEdit:
		return newEntityFormPage(b, userEntity, id)
	}
	return notFound
}
