package config

// UploadPolicy - ограничения для одного вида загружаемых файлов
type UploadPolicy struct {
	MaxSize      int64
	AllowedTypes []string
	Prefix       string // префикс ключа в хранилище
}

// Allows проверяет MIME-тип по белому списку
func (p UploadPolicy) Allows(contentType string) bool {
	for _, t := range p.AllowedTypes {
		if t == contentType {
			return true
		}
	}
	return false
}

// CVPolicy - политика для резюме кандидатов
func (c *Config) CVPolicy() UploadPolicy {
	return UploadPolicy{
		MaxSize:      c.Upload.MaxCVSize,
		AllowedTypes: c.Upload.AllowedCVTypes,
		Prefix:       "cv",
	}
}

// AvatarPolicy - политика для аватаров сотрудников
func (c *Config) AvatarPolicy() UploadPolicy {
	return UploadPolicy{
		MaxSize:      c.Upload.MaxAvatarSize,
		AllowedTypes: c.Upload.AllowedImageType,
		Prefix:       "avatars",
	}
}
