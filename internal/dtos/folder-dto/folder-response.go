package folder_dto

import "github.com/neolist/neolist/internal/entity"

type FolderOverviewResponse struct {
	Folders     []entity.FolderEntity `json:"folders"`
	SharedLists []entity.ListEntity   `json:"shared_lists"`
}

type FolderDetailResponse struct {
	Folder *entity.FolderEntity `json:"folder"`
	Lists  []entity.ListEntity  `json:"lists"`
}

type ListDetailResponse struct {
	List      *entity.ListEntity  `json:"list"`
	Members   []entity.ListMember `json:"members"`
	CanManage bool                `json:"can_manage"`
}
